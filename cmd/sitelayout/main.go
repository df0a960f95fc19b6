package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/moseybank/sitelayout"
	"github.com/moseybank/sitelayout/markup"
)

var errUnknownCommand = errors.New("unknown command")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if errors.Is(err, errUnknownCommand) {
		usage(os.Stderr)
	}
	exitOnErr(err)
}

// run dispatches args to a subcommand. Without arguments it serves.
func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return cmdServe(ctx, nil)
	}

	switch args[0] {
	case "serve":
		return cmdServe(ctx, args[1:])
	case "render":
		return cmdRender(ctx, args[1:], out)
	case "locales":
		return cmdLocales(ctx, args[1:], out)
	case "help", "-h", "--help":
		usage(out)
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, args[0])
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "sitelayout <command> [args]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  serve [--addr :8080]")
	fmt.Fprintln(out, "  render footer|language-switcher [--locale LOCALE]")
	fmt.Fprintln(out, "  locales [--system]")
}

func newService(ctx context.Context) (context.Context, *sitelayout.Service, error) {
	return sitelayout.NewServiceWithContext(ctx, "sitelayout", sitelayout.WithTelemetry())
}

func cmdServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address, defaults to HTTP_PORT")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, svc, err := newService(ctx)
	if err != nil {
		return err
	}

	err = svc.Run(ctx, *addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func cmdRender(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errors.New("render needs footer or language-switcher")
	}
	fragment := args[0]

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(out)
	locale := fs.String("locale", "", "locale to render")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctx, svc, err := newService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop(ctx)

	rc := &sitelayout.RequestContext{Locale: *locale, Client: svc.GraphClient()}

	var node *html.Node
	switch fragment {
	case "footer":
		node = svc.Footer(ctx, "", rc)
	case "language-switcher":
		node = svc.LanguageSwitcher(ctx, rc)
	default:
		return fmt.Errorf("unknown fragment: %q", fragment)
	}

	rendered, err := markup.Render(node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

func cmdLocales(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("locales", flag.ContinueOnError)
	fs.SetOutput(out)
	system := fs.Bool("system", false, "include ALL and NEUTRAL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, svc, err := newService(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop(ctx)

	found := svc.Locales().GetLocales(ctx, *system, svc.GraphClient())
	_, err = fmt.Fprintln(out, strings.Join(found, "\n"))
	return err
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

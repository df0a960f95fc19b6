package valkey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcvalkey "github.com/testcontainers/testcontainers-go/modules/valkey"

	"github.com/moseybank/sitelayout/cache"
)

const valkeyImage = "docker.io/valkey/valkey:latest"

type ValkeySuite struct {
	suite.Suite
	container *tcvalkey.ValkeyContainer
	uri       string
}

func TestValkeySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("valkey suite needs a container runtime")
	}
	suite.Run(t, new(ValkeySuite))
}

func (s *ValkeySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcvalkey.Run(ctx, valkeyImage)
	s.Require().NoError(err)
	s.container = container

	s.uri, err = container.ConnectionString(ctx)
	s.Require().NoError(err)
}

func (s *ValkeySuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *ValkeySuite) TestNewAndOperations() {
	ctx := context.Background()

	_, err := New(cache.WithURI("://bad-uri"))
	s.Require().Error(err)

	raw, err := New(cache.WithURI(s.uri), cache.WithMaxAge(time.Minute))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = raw.Close() })

	s.Require().NoError(raw.Set(ctx, "locales:req-1:false", []byte(`["en"]`), 0))
	s.Require().NoError(raw.Set(ctx, "locales:req-1:true", []byte(`["ALL","en"]`), time.Minute))
	s.Require().NoError(raw.Set(ctx, "locales:process:false", []byte(`["en"]`), time.Minute))

	val, found, err := raw.Get(ctx, "locales:req-1:false")
	s.Require().NoError(err)
	s.True(found)
	s.Equal([]byte(`["en"]`), val)

	_, found, err = raw.Get(ctx, "missing")
	s.Require().NoError(err)
	s.False(found)

	deleter, ok := raw.(cache.PrefixDeleter)
	s.Require().True(ok)
	s.Require().NoError(deleter.DeletePrefix(ctx, "locales:req-1:"))

	exists, err := raw.Exists(ctx, "locales:req-1:true")
	s.Require().NoError(err)
	s.False(exists)

	exists, err = raw.Exists(ctx, "locales:process:false")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(raw.Delete(ctx, "locales:process:false"))
	s.Require().NoError(raw.Flush(ctx))
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type OptionsSuite struct {
	suite.Suite
}

func TestOptionsSuite(t *testing.T) {
	suite.Run(t, new(OptionsSuite))
}

func (s *OptionsSuite) TestDefaults() {
	opts := NewOptions()
	s.Equal("default", opts.Name)
	s.Equal(time.Hour, opts.MaxAge)
	s.Empty(opts.URI)
}

func (s *OptionsSuite) TestOptionsAppliersTable() {
	opts := &Options{}

	apply := []struct {
		name string
		fn   Option
	}{
		{name: "uri", fn: WithURI("redis://127.0.0.1:6379")},
		{name: "name", fn: WithName("bucket")},
		{name: "max_age", fn: WithMaxAge(5 * time.Minute)},
	}

	for _, tc := range apply {
		s.Run(tc.name, func() {
			tc.fn(opts)
		})
	}

	s.Equal("redis://127.0.0.1:6379", opts.URI)
	s.Equal("bucket", opts.Name)
	s.Equal(5*time.Minute, opts.MaxAge)
}

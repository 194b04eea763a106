package binding

import (
	"fmt"
	"mime"
	"sort"
	"strings"
)

// Channel names used by the greetings service.
const (
	GreetingsOut = "greetings-out"
	GreetingsIn  = "greetings-in"
)

const (
	defaultDestination = "greetings"
	defaultGroup       = "greetings-group"
	ContentTypeJSON    = "application/json"
)

// Binding ties a named channel to a broker destination.
type Binding struct {
	Destination string `yaml:"destination" mapstructure:"destination"`
	Group       string `yaml:"group" mapstructure:"group"`
	ContentType string `yaml:"content_type" mapstructure:"content_type"`
}

// Config holds every channel binding keyed by channel name.
type Config struct {
	Bindings map[string]Binding `yaml:"bindings" mapstructure:"bindings"`
}

// ApplyDefaults makes sure both greetings channels exist and fills unset
// destinations, the input group and content types.
func (c *Config) ApplyDefaults() {
	if c.Bindings == nil {
		c.Bindings = make(map[string]Binding)
	}
	for _, name := range []string{GreetingsOut, GreetingsIn} {
		if _, ok := c.Bindings[name]; !ok {
			c.Bindings[name] = Binding{}
		}
	}
	for name, b := range c.Bindings {
		if b.Destination == "" {
			b.Destination = defaultDestination
		}
		if b.ContentType == "" {
			b.ContentType = ContentTypeJSON
		}
		if name == GreetingsIn && b.Group == "" {
			b.Group = defaultGroup
		}
		c.Bindings[name] = b
	}
}

// Validate checks every binding has a destination and a JSON content type.
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.Bindings))
	for name := range c.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b := c.Bindings[name]
		if b.Destination == "" {
			return fmt.Errorf("stream.bindings.%s.destination is required", name)
		}
		if !IsJSON(b.ContentType) {
			return fmt.Errorf("stream.bindings.%s.content_type %q is not supported (JSON only)", name, b.ContentType)
		}
	}
	return nil
}

// Lookup returns the binding for a channel name.
func (c *Config) Lookup(name string) (Binding, error) {
	b, ok := c.Bindings[name]
	if !ok {
		return Binding{}, fmt.Errorf("unknown channel %q", name)
	}
	return b, nil
}

// IsJSON reports whether contentType is application/json or a +json type.
func IsJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == ContentTypeJSON || strings.HasSuffix(mt, "+json")
}

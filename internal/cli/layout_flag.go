package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/alexanderramin/mawang/internal/domain"
)

// layoutFlag is a --layout value restricted to the section layouts.
type layoutFlag struct {
	value string
}

var _ pflag.Value = (*layoutFlag)(nil)

func (f *layoutFlag) String() string { return f.value }

func (f *layoutFlag) Set(s string) error {
	if _, ok := domain.ParseSectionLayout(s); !ok {
		return fmt.Errorf("layout must be %q or %q", domain.LayoutCard, domain.LayoutExpanded)
	}
	f.value = s
	return nil
}

func (f *layoutFlag) Type() string { return "layout" }

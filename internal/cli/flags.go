package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type optionPair struct {
	category string // may be empty when only an option ID was given
	option   string
}

// optionFlag collects repeated --option values of the form category=option.
// A bare option ID is accepted too and matched against every category.
type optionFlag struct {
	pairs []optionPair
}

var _ pflag.Value = (*optionFlag)(nil)

func (f *optionFlag) String() string {
	parts := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		if p.category == "" {
			parts[i] = p.option
		} else {
			parts[i] = p.category + "=" + p.option
		}
	}
	return strings.Join(parts, ",")
}

func (f *optionFlag) Set(value string) error {
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		category, option, found := strings.Cut(item, "=")
		if !found {
			option, category = category, ""
		}
		category, option = strings.TrimSpace(category), strings.TrimSpace(option)
		if option == "" || (found && category == "") {
			return fmt.Errorf("expected category=option, got %q", item)
		}
		f.pairs = append(f.pairs, optionPair{category: category, option: option})
	}
	return nil
}

func (f *optionFlag) Type() string {
	return "category=option"
}

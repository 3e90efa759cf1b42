package model

import "fmt"

// Asset type labels understood by the data source.
const (
	AssetTypeFX        = "FX"
	AssetTypeCommodity = "COMMODITY"
)

// Asset describes one configured instrument.
type Asset struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// FX pairs.
	FromSymbol string `yaml:"from_symbol,omitempty"`
	ToSymbol   string `yaml:"to_symbol,omitempty"`

	// Commodity series function name, e.g. WTI or BRENT.
	Function string `yaml:"function,omitempty"`
}

// Validate checks that the asset carries the fields its type requires.
func (a Asset) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("asset name is required")
	}
	switch a.Type {
	case AssetTypeFX:
		if a.FromSymbol == "" || a.ToSymbol == "" {
			return fmt.Errorf("asset %s: FX assets need from_symbol and to_symbol", a.Name)
		}
	case AssetTypeCommodity:
		if a.Function == "" {
			return fmt.Errorf("asset %s: COMMODITY assets need function", a.Name)
		}
	default:
		return fmt.Errorf("asset %s: unsupported type %q", a.Name, a.Type)
	}
	return nil
}

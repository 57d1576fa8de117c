package catalog

// File is the YAML override document. Every field is optional; set fields override the
// built-in catalog.
type File struct {
	Version  string        `yaml:"version"`
	Sections []SectionFile `yaml:"sections"`
	Notes    string        `yaml:"notes,omitempty"`
}

type SectionFile struct {
	ID       string        `yaml:"id"`
	Title    *string       `yaml:"title,omitempty"`
	Subtitle *string       `yaml:"subtitle,omitempty"`
	Products []ProductFile `yaml:"products"`
}

type ProductFile struct {
	ID            string  `yaml:"id"`
	Name          *string `yaml:"name,omitempty"`
	Amount        *int    `yaml:"amount,omitempty"`
	AmountDisplay *string `yaml:"amount_display,omitempty"`
	Price         *string `yaml:"price,omitempty"`          // decimal string, e.g. "45.00"
	OriginalPrice *string `yaml:"original_price,omitempty"` // "" clears the promotion
	Bonus         *int    `yaml:"bonus,omitempty"`
	Savings       *string `yaml:"savings,omitempty"`
	Tier          *string `yaml:"tier,omitempty"`
	Popular       *bool   `yaml:"popular,omitempty"`
	Remove        bool    `yaml:"remove,omitempty"`
}

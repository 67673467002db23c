package model

// ThemeColors is the fixed 12-slot color scheme of a theme. Values are
// "#RRGGBB" strings; an empty slot is undefined.
type ThemeColors struct {
	Dark1             string
	Light1            string
	Dark2             string
	Light2            string
	Accent1           string
	Accent2           string
	Accent3           string
	Accent4           string
	Accent5           string
	Accent6           string
	Hyperlink         string
	FollowedHyperlink string
}

// Theme holds the document palette and font pair.
type Theme struct {
	Name      string
	Colors    ThemeColors
	MajorFont string // Heading font
	MinorFont string // Body font
}

// SchemeSlots lists the scheme color names in palette order.
var SchemeSlots = []string{
	"dk1", "lt1", "dk2", "lt2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// Lookup returns the color of a named scheme slot. The color-map aliases
// tx1, tx2, bg1 and bg2 resolve with the default mapping (tx1=dk1,
// bg1=lt1, tx2=dk2, bg2=lt2). It returns false for unknown or empty slots.
func (c ThemeColors) Lookup(name string) (string, bool) {
	var v string
	switch name {
	case "dk1", "tx1":
		v = c.Dark1
	case "lt1", "bg1":
		v = c.Light1
	case "dk2", "tx2":
		v = c.Dark2
	case "lt2", "bg2":
		v = c.Light2
	case "accent1":
		v = c.Accent1
	case "accent2":
		v = c.Accent2
	case "accent3":
		v = c.Accent3
	case "accent4":
		v = c.Accent4
	case "accent5":
		v = c.Accent5
	case "accent6":
		v = c.Accent6
	case "hlink":
		v = c.Hyperlink
	case "folHlink":
		v = c.FollowedHyperlink
	}
	return v, v != ""
}

// Set assigns a named scheme slot. Unknown names are ignored.
func (c *ThemeColors) Set(name, value string) {
	switch name {
	case "dk1":
		c.Dark1 = value
	case "lt1":
		c.Light1 = value
	case "dk2":
		c.Dark2 = value
	case "lt2":
		c.Light2 = value
	case "accent1":
		c.Accent1 = value
	case "accent2":
		c.Accent2 = value
	case "accent3":
		c.Accent3 = value
	case "accent4":
		c.Accent4 = value
	case "accent5":
		c.Accent5 = value
	case "accent6":
		c.Accent6 = value
	case "hlink":
		c.Hyperlink = value
	case "folHlink":
		c.FollowedHyperlink = value
	}
}

// IsZero reports whether no slot is defined.
func (c ThemeColors) IsZero() bool {
	return c == ThemeColors{}
}

// DefaultTheme returns the stock Office palette and fonts.
func DefaultTheme() Theme {
	return Theme{
		Name: "Office Theme",
		Colors: ThemeColors{
			Dark1:             "#000000",
			Light1:            "#FFFFFF",
			Dark2:             "#44546A",
			Light2:            "#E7E6E6",
			Accent1:           "#4472C4",
			Accent2:           "#ED7D31",
			Accent3:           "#A5A5A5",
			Accent4:           "#FFC000",
			Accent5:           "#5B9BD5",
			Accent6:           "#70AD47",
			Hyperlink:         "#0563C1",
			FollowedHyperlink: "#954F72",
		},
		MajorFont: "Calibri Light",
		MinorFont: DefaultFont,
	}
}

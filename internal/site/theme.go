package site

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Theme carries every piece of copy, contact detail and colour a page renders. One
// value drives all views; the skins only differ in data.
type Theme struct {
	Key          string    `mapstructure:"key"`
	Brand        string    `mapstructure:"brand"`
	Tagline      string    `mapstructure:"tagline"`
	HeroTitle    string    `mapstructure:"heroTitle"`
	HeroSubtitle string    `mapstructure:"heroSubtitle"`
	HeroImage    string    `mapstructure:"heroImage"`
	AboutTitle   string    `mapstructure:"aboutTitle"`
	AboutBody    []string  `mapstructure:"aboutBody"`
	AboutImage   string    `mapstructure:"aboutImage"`
	Address      []string  `mapstructure:"address"`
	Phone        string    `mapstructure:"phone"`
	Email        string    `mapstructure:"email"`
	Hours        string    `mapstructure:"hours"`
	Palette      Palette   `mapstructure:"palette"`
	Nav          []NavItem `mapstructure:"nav"`
	Reasons      []Feature `mapstructure:"reasons"`
	TimeSlots    []string  `mapstructure:"timeSlots"`
	// FeaturedProjects caps the projects shown on the home page.
	FeaturedProjects int `mapstructure:"featuredProjects"`
}

// Palette holds the CSS colours of a skin.
type Palette struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Surface   string `mapstructure:"surface"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
}

// NavItem is a header navigation link.
type NavItem struct {
	Path  string `mapstructure:"path"`
	Label string `mapstructure:"label"`
}

// Feature is an icon, title and description triple used in marketing sections.
type Feature struct {
	Icon        string `mapstructure:"icon"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

var defaultNav = []NavItem{
	{Path: "/", Label: "Home"},
	{Path: "/about", Label: "About"},
	{Path: "/services", Label: "Services"},
	{Path: "/projects", Label: "Projects"},
	{Path: "/blog", Label: "Blog"},
	{Path: "/testimonials", Label: "Testimonials"},
	{Path: "/faq", Label: "FAQ"},
	{Path: "/contact", Label: "Contact"},
}

var defaultTimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM",
	"01:00 PM", "02:00 PM", "03:00 PM",
	"04:00 PM", "05:00 PM",
}

var builtins = map[string]Theme{
	"arcology": {
		Key:          "arcology",
		Brand:        "Arcology",
		Tagline:      "Architecture Design & Development",
		HeroTitle:    "Shaping Spaces, Defining Tomorrow",
		HeroSubtitle: "Award-winning architectural design and development services for visionary projects.",
		HeroImage:    "https://images.unsplash.com/photo-1487958449943-2429e8be8625?auto=format&fit=crop&w=1950&q=80",
		AboutTitle:   "About Arcology",
		AboutBody: []string{
			"Arcology is an architectural firm creating innovative, sustainable and enduring structures. Founded in 2003, we have grown from a small design studio into an award-winning practice with projects across the globe.",
			"Our team of architects, designers and engineers works closely with every client to turn a vision into a building that serves its people and its place.",
		},
		AboutImage: "https://images.unsplash.com/photo-1503387762-592deb58ef4e?auto=format&fit=crop&w=1200&q=80",
		Address:    []string{"123 Architecture Avenue", "Design District, NY 10001"},
		Phone:      "+1 (555) 987-6543",
		Email:      "info@arcology.com",
		Hours:      "Mon-Fri, 9am-6pm",
		Palette: Palette{
			Primary:   "#1f2933",
			Secondary: "#b7791f",
			Surface:   "#f7f5f2",
			Text:      "#1f2933",
			Muted:     "#6b7280",
		},
		Nav: defaultNav,
		Reasons: []Feature{
			{Icon: "bx-bulb", Title: "Innovative Approach", Description: "We embrace creative problem-solving and current technology to push architectural boundaries."},
			{Icon: "bx-certification", Title: "Expert Team", Description: "Our architects and designers bring extensive experience across many specialisations."},
			{Icon: "bx-leaf", Title: "Sustainability Focus", Description: "Environmental responsibility shapes our design process and material selection."},
			{Icon: "bx-conversation", Title: "Client-Centered", Description: "We listen to your needs and involve you throughout the design process."},
		},
		TimeSlots:        defaultTimeSlots,
		FeaturedProjects: 3,
	},
	"studio": {
		Key:          "studio",
		Brand:        "ArchVision",
		Tagline:      "Innovative architecture for a sustainable future",
		HeroTitle:    "Designing the Future of Living",
		HeroSubtitle: "Creating innovative architectural solutions for a sustainable future.",
		HeroImage:    "https://images.unsplash.com/photo-1600585154340-be6161a56a0c?auto=format&fit=crop&w=1950&q=80",
		AboutTitle:   "About ArchVision",
		AboutBody: []string{
			"ArchVision is a design studio focused on homes, workplaces and public spaces that balance beauty with performance.",
			"Every commission starts with a conversation and ends with a building our clients are proud of.",
		},
		AboutImage: "https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?auto=format&fit=crop&w=1200&q=80",
		Address:    []string{"123 Architecture Avenue", "New York"},
		Phone:      "+1 (555) 123-4567",
		Email:      "info@archvision.com",
		Hours:      "Mon-Fri, 9am-6pm",
		Palette: Palette{
			Primary:   "#1c1917",
			Secondary: "#57534e",
			Surface:   "#ffffff",
			Text:      "#1c1917",
			Muted:     "#78716c",
		},
		Nav: defaultNav,
		Reasons: []Feature{
			{Icon: "bx-building-house", Title: "Flexible Scheduling", Description: "Choose from time slots that suit your schedule."},
			{Icon: "bx-buildings", Title: "Expert Consultation", Description: "Meet with our experienced architectural team."},
			{Icon: "bx-conversation", Title: "Detailed Discussion", Description: "An in-depth look at your project requirements."},
			{Icon: "bx-check-circle", Title: "Custom Solutions", Description: "Architectural solutions tailored to your needs."},
		},
		TimeSlots:        defaultTimeSlots,
		FeaturedProjects: 6,
	},
}

// ThemeNames lists the built-in skins.
func ThemeNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a copy of the named skin.
func Builtin(name string) (Theme, error) {
	theme, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Theme{}, eris.Errorf("unknown site theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return theme.clone(), nil
}

// LoadTheme returns the named skin with the fields present in file, if any, overriding it.
func LoadTheme(name, file string) (Theme, error) {
	theme, err := Builtin(name)
	if err != nil {
		return Theme{}, err
	}

	if strings.TrimSpace(file) == "" {
		return theme, nil
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return Theme{}, eris.Wrapf(err, "reading theme file: %s", file)
	}
	if err := v.Unmarshal(&theme); err != nil {
		return Theme{}, eris.Wrapf(err, "decoding theme file: %s", file)
	}

	if err := theme.Validate(); err != nil {
		return Theme{}, eris.Wrapf(err, "validating theme file: %s", file)
	}
	return theme, nil
}

// Validate checks the fields every page depends on.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.Brand) == "" {
		return eris.New("theme brand is required")
	}
	if len(t.Nav) == 0 {
		return eris.New("theme navigation is required")
	}
	if len(t.TimeSlots) == 0 {
		return eris.New("theme time slots are required")
	}
	return nil
}

// HasTimeSlot reports whether slot is offered for consultations.
func (t Theme) HasTimeSlot(slot string) bool {
	for _, candidate := range t.TimeSlots {
		if candidate == slot {
			return true
		}
	}
	return false
}

func (t Theme) clone() Theme {
	t.AboutBody = append([]string(nil), t.AboutBody...)
	t.Address = append([]string(nil), t.Address...)
	t.Nav = append([]NavItem(nil), t.Nav...)
	t.Reasons = append([]Feature(nil), t.Reasons...)
	t.TimeSlots = append([]string(nil), t.TimeSlots...)
	return t
}

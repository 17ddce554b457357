package config

type (
	Highlights []Highlight
	Highlight  struct {
		Color       PColor `koanf:"color"`
		CustomColor []int  `koanf:"custom-color"`
		Value       string `koanf:"value"`
		Pattern     string `koanf:"pattern"`
	}
	PColor string
)

const (
	PColorBlack   PColor = "black"
	PColorRed     PColor = "red"
	PColorGreen   PColor = "green"
	PColorYellow  PColor = "yellow"
	PColorBlue    PColor = "blue"
	PColorMagenta PColor = "magenta"
	PColorCyan    PColor = "cyan"
	PColorWhite   PColor = "white"
)

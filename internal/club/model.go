package club

type Club struct {
	ID      uint
	Name    string
	LogoURL string
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search       key.Binding
	Focus        key.Binding
	FocusBack    key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Quick        key.Binding
	Reindex      key.Binding
	Analyze      key.Binding
	Theme        key.Binding
	Reset        key.Binding
	Close        key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Search:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "cari")),
		Focus:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "fokus")),
		FocusBack:    key.NewBinding(key.WithKeys("shift+tab")),
		PrevPage:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "sebelumnya")),
		NextPage:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "berikutnya")),
		NextCategory: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n/p", "kategori")),
		PrevCategory: key.NewBinding(key.WithKeys("ctrl+p")),
		Quick: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1..9", "pencarian cepat"),
		),
		Reindex: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reindex")),
		Analyze: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "analisis")),
		Theme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tema")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "reset")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "tutup")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "keluar")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Focus, k.PrevPage, k.NextPage, k.NextCategory, k.Reindex, k.Analyze, k.Theme, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Focus, k.PrevPage, k.NextPage},
		{k.NextCategory, k.Quick, k.Reset},
		{k.Reindex, k.Analyze, k.Theme, k.Close, k.Quit},
	}
}

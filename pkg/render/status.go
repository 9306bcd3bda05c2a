package render

// PanelKind identifies one of the mutually exclusive content panels.
type PanelKind int

const (
	PanelNone PanelKind = iota
	PanelWelcome
	PanelLoading
	PanelNotIndexed
	PanelEmpty
	PanelNoResults
	PanelError
)

// Panel is a full width message with an optional reindex action.
type Panel struct {
	Kind    PanelKind
	Title   string
	Message string
	// Color is a palette colour name for the icon and action.
	Color   string
	Reindex bool
}

var (
	WelcomePanel = Panel{
		Kind:    PanelWelcome,
		Title:   "Mesin Pencari Dokumen Indonesia",
		Message: "Masukkan kata kunci untuk mulai mencari",
		Color:   ColorBar,
	}
	NotIndexedPanel = Panel{
		Kind:    PanelNotIndexed,
		Title:   "Database belum diindeks",
		Message: "Silakan jalankan proses indexing terlebih dahulu",
		Color:   "red",
		Reindex: true,
	}
	EmptyPanel = Panel{
		Kind:    PanelEmpty,
		Title:   "Database kosong",
		Message: "Belum ada dokumen yang diindeks",
		Color:   "amber",
		Reindex: true,
	}
	NoResultsPanel = Panel{
		Kind:    PanelNoResults,
		Title:   "Tidak ada hasil ditemukan",
		Message: "Coba gunakan kata kunci yang berbeda atau pilih kategori lain",
		Color:   ColorNeutral,
	}
)

// ErrorPanel shows a failure message with a reload action.
func ErrorPanel(message string) Panel {
	return Panel{
		Kind:    PanelError,
		Title:   "Terjadi Kesalahan",
		Message: message,
		Color:   "red",
	}
}

// StartupPanel decides what replaces the welcome panel after the one time
// startup check. payloadError is the /stats error field; a request failure
// keeps the welcome panel. The not indexed check wins over the empty check.
func StartupPanel(payloadError string, totalDocuments int, requestFailed bool) Panel {
	switch {
	case requestFailed:
		return WelcomePanel
	case payloadError != "":
		return NotIndexedPanel
	case totalDocuments == 0:
		return EmptyPanel
	}
	return WelcomePanel
}

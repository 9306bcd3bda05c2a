// Package render builds presentation view models from API responses.
//
// Builders are pure: they take a response plus the current state and return
// plain structs that the web components and the terminal UI draw. They
// never perform I/O and never mutate their inputs, so the same builder
// output can be committed to a page, a fragment or a terminal frame.
package render

// User visible texts shared by the web and terminal interfaces.
const (
	MsgEmptyQuery     = "Silakan masukkan kata kunci pencarian"
	MsgSearchError    = "Terjadi kesalahan saat mencari. Silakan coba lagi."
	MsgReindexConfirm = "Yakin ingin mengindeks ulang database? Proses ini mungkin memakan waktu beberapa saat."
	MsgReindexStarted = "Proses reindexing dimulai dari folder: %s"
	MsgReindexError   = "Terjadi kesalahan saat mengindeks ulang database."
	MsgAnalyzeError   = "Terjadi kesalahan saat menganalisis korpus."

	LabelAllCategories  = "Semua Kategori"
	LabelUncategorized  = "Lainnya"
	LabelNoCategory     = "Tanpa kategori"
	LabelNoPreview      = "Tidak ada preview tersedia."
	LabelReadMore       = "Baca selengkapnya"
	LabelScore          = "Skor:"
	LabelTimes          = "kali"
	LabelReindex        = "Reindex Database"
	LabelReindexBusy    = "Reindexing..."
	LabelAnalyze        = "Analisis Korpus"
	LabelAnalyzeBusy    = "Menganalisis..."
	LabelPrevious       = "Sebelumnya"
	LabelNext           = "Berikutnya"
	LabelSearch         = "Cari"
	LabelSearchHint     = "Cari dokumen..."
	LabelTotalDocuments = "Total dokumen:"
	LabelCategoryDist   = "Distribusi Kategori"
	LabelTopWords       = "Kata Paling Sering Muncul"
	LabelReload         = "Muat Ulang Halaman"
	LabelReset          = "Atur Ulang"
)

package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/rubiojr/cari/pkg/render"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	if err := c.Render(context.Background(), &sb); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return sb.String()
}

func TestCard(t *testing.T) {
	out := renderString(t, Card(render.Card{
		Number:        3,
		Title:         "<b>Danau</b> Toba",
		Category:      "Wisata",
		CategoryColor: "green",
		Snippet:       "<mark>danau</mark> &amp; gunung",
		URL:           "javascript:alert(1)",
		Score:         "9.50",
	}))

	for _, want := range []string{
		`<span class="number">3</span>`,
		`<h3>&lt;b&gt;Danau&lt;/b&gt; Toba</h3>`,
		`<span class="badge c-green">Wisata</span>`,
		`<p class="snippet"><mark>danau</mark> &amp; gunung</p>`,
		render.LabelScore + " 9.50",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "javascript:") {
		t.Errorf("unsafe URL rendered:\n%s", out)
	}
}

func TestCardWithoutURL(t *testing.T) {
	out := renderString(t, Card(render.Card{Number: 1, Title: "Tanpa tautan"}))
	if strings.Contains(out, "<a ") {
		t.Errorf("expected no link:\n%s", out)
	}
}

func TestPager(t *testing.T) {
	if out := renderString(t, Pager(render.Pagination{Visible: false})); out != "" {
		t.Errorf("hidden pager rendered %q", out)
	}

	out := renderString(t, Pager(render.Pagination{Visible: true, Page: 1, Pages: 2, NextEnabled: true}))
	for _, want := range []string{
		`<button type="button" id="prev-page" disabled>`,
		`<button type="button" id="next-page">`,
		"Halaman 1 dari 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pager missing %s:\n%s", want, out)
		}
	}
}

func TestResultsNoResults(t *testing.T) {
	out := renderString(t, Results(render.SearchView{NoResults: true}))
	if !strings.Contains(out, render.NoResultsPanel.Title) || strings.Contains(out, `id="results"`) {
		t.Errorf("expected the no results panel:\n%s", out)
	}
}

func TestPanel(t *testing.T) {
	out := renderString(t, Panel(render.ErrorPanel("Gagal & rusak")))
	for _, want := range []string{
		`class="panel panel-error`,
		"Gagal &amp; rusak",
		`class="reload-action"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %s:\n%s", want, out)
		}
	}

	out = renderString(t, Panel(render.NotIndexedPanel))
	if !strings.Contains(out, `class="reindex-action"`) || strings.Contains(out, "reload-action") {
		t.Errorf("not indexed panel should only offer reindexing:\n%s", out)
	}
}

func TestAnalysis(t *testing.T) {
	out := renderString(t, Analysis(render.AnalysisView{
		TotalDocuments: 3,
		Categories:     []render.Bar{{Label: "Wisata", Count: 2, Width: 100, Percent: "66.7%", Color: "blue"}},
		Words:          []render.Bar{{Label: "danau", Count: 4, Width: 50, Color: "green"}},
	}))
	for _, want := range []string{
		"<strong>3</strong>",
		`<span class="bar-fill c-blue" style="width: 100.0%">`,
		"2 (66.7%)",
		render.CountLabel(4),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("analysis missing %s:\n%s", want, out)
		}
	}

	out = renderString(t, Analysis(render.AnalysisView{Error: "<gagal>"}))
	if !strings.Contains(out, `role="alert">&lt;gagal&gt;</div>`) {
		t.Errorf("expected escaped inline error:\n%s", out)
	}
}

func TestPageSettingsScript(t *testing.T) {
	out := renderString(t, Page(PageData{
		Title:    "Cari",
		Version:  "v1",
		Panel:    render.WelcomePanel,
		Settings: Settings{PageSize: 20, Messages: ClientMessages()},
	}))
	for _, want := range []string{
		`<script id="cari-settings" type="application/json">`,
		`"page_size":20`,
		`<template id="welcome-panel">`,
		"<footer>v1</footer>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

package domain

import (
	"encoding/json"
	"testing"
)

func TestImageOutputDecodesSingleString(t *testing.T) {
	t.Parallel()

	var out ImageOutput
	if err := json.Unmarshal([]byte(`"https://img/1"`), &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if out.Single == nil || out.Single.URL != "https://img/1" {
		t.Fatalf("unexpected single: %+v", out.Single)
	}
	if results := out.Results(); len(results) != 1 || results[0].URL != "https://img/1" {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestImageOutputDecodesSingleObject(t *testing.T) {
	t.Parallel()

	var out ImageOutput
	if err := json.Unmarshal([]byte(`{"url":"https://img/2"}`), &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if out.Single == nil || out.Single.URL != "https://img/2" {
		t.Fatalf("unexpected single: %+v", out.Single)
	}
}

func TestImageOutputDecodesMixedList(t *testing.T) {
	t.Parallel()

	var out ImageOutput
	if err := json.Unmarshal([]byte(`["https://a",{"url":"https://b"}]`), &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	results := out.Results()
	if len(results) != 2 || results[0].URL != "https://a" || results[1].URL != "https://b" {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestImageOutputDecodesNull(t *testing.T) {
	t.Parallel()

	var out ImageOutput
	if err := json.Unmarshal([]byte(`null`), &out); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if out.Single != nil || out.List != nil {
		t.Fatalf("expected empty output, got %+v", out)
	}
	if len(out.Results()) != 0 {
		t.Fatalf("expected no results")
	}
}

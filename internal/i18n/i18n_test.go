package i18n

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/pavelanni/hwhelper/internal/apperr"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "ColTitle"); got != "Title" {
		t.Errorf("T(ColTitle) = %q, want 'Title'", got)
	}
	if got := T(ctx, "ErrNavigationTimeout"); got != "The portal did not respond in time" {
		t.Errorf("T(ErrNavigationTimeout) = %q", got)
	}
}

func TestTranslateChinese(t *testing.T) {
	ctx := initLang(t, "zh")

	if got := T(ctx, "ColTitle"); got != "标题" {
		t.Errorf("T(ColTitle) = %q, want '标题'", got)
	}
	if got := Tp(ctx, "HomeworkCount", 3); got != "共 3 项作业" {
		t.Errorf("Tp(HomeworkCount, 3) = %q", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	if got := Tp(ctx, "HomeworkCount", 1); got != "1 homework item" {
		t.Errorf("Tp(HomeworkCount, 1) = %q", got)
	}
	if got := Tp(ctx, "HomeworkCount", 5); got != "5 homework items" {
		t.Errorf("Tp(HomeworkCount, 5) = %q", got)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "InvalidIndex", map[string]any{"Index": 42})
	if got != "Invalid homework index 42; run list to see valid indices." {
		t.Errorf("Td(InvalidIndex) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	if got := T(ctx, "NonExistentKey"); got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestContextWithoutLocalizerUsesDefault(t *testing.T) {
	if err := Init("zh"); err != nil {
		t.Fatal(err)
	}
	if got := T(context.Background(), "Bye"); got != "再见。" {
		t.Errorf("T(Bye) = %q", got)
	}
}

func TestError(t *testing.T) {
	ctx := initLang(t, "en")

	err := fmt.Errorf("%w: question text not downloaded", apperr.ErrMissingPrerequisite)
	want := "A required step has not been run yet: missing prerequisite: question text not downloaded"
	if got := Error(ctx, err); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := Error(ctx, nil); got != "" {
		t.Errorf("Error(nil) = %q", got)
	}
	if got := Error(ctx, errors.New("boom")); got != "Unexpected error: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestLocalesHaveSameKeys(t *testing.T) {
	read := func(name string) map[string]any {
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			t.Fatal(err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		return m
	}
	en, zh := read("en.json"), read("zh.json")
	for k := range en {
		if _, ok := zh[k]; !ok {
			t.Errorf("zh.json is missing %q", k)
		}
	}
	for k := range zh {
		if _, ok := en[k]; !ok {
			t.Errorf("en.json is missing %q", k)
		}
	}
}

func TestEveryCategoryTranslated(t *testing.T) {
	ctx := initLang(t, "en")
	errs := []error{
		&apperr.NoticeError{Text: "x"}, apperr.ErrNavigationTimeout, apperr.ErrUnsupportedStatus,
		apperr.ErrInvalidState, apperr.ErrMissingPrerequisite, apperr.ErrInvalidModelOutput,
		apperr.ErrProvider, apperr.ErrScrape, apperr.ErrAnswerMismatch, context.Canceled, errors.New("x"),
	}
	for _, err := range errs {
		id := apperr.Category(err)
		if got := T(ctx, id); got == id {
			t.Errorf("category %s has no translation", id)
		}
	}
}

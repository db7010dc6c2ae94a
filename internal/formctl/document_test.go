package formctl_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/urlanalyzer/internal/formctl"
)

func TestDocument_MessageHTMLEscapesText(t *testing.T) {
	t.Parallel()
	doc := formctl.NewDocument("", "/submit")
	doc.ShowMessage(formctl.Message{Text: `<img src=x onerror="alert(1)">`, Level: formctl.LevelError})

	html := string(doc.State().MessageHTML)
	if strings.Contains(html, "<img") {
		t.Fatalf("message text was not escaped: %s", html)
	}
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	msg := parsed.Find(".msg")
	if !msg.HasClass("error") {
		t.Errorf("expected error class, got %q", msg.AttrOr("class", ""))
	}
	if msg.Text() != `<img src=x onerror="alert(1)">` {
		t.Errorf("text = %q", msg.Text())
	}
}

func TestDocument_RetryControlPostsLastURL(t *testing.T) {
	t.Parallel()
	doc := formctl.NewDocument("", "/submit")
	doc.ShowMessage(formctl.Message{
		Text:  "queued",
		Level: formctl.LevelInfo,
		Retry: &formctl.RetryControl{URL: `http://example.com/?a="b"`},
	})

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(string(doc.State().MessageHTML)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	form := parsed.Find("form.retry-form")
	if form.AttrOr("action", "") != "/submit" || form.AttrOr("method", "") != "post" {
		t.Errorf("unexpected retry form: action=%q method=%q", form.AttrOr("action", ""), form.AttrOr("method", ""))
	}
	if got := form.Find(`input[name="url"]`).AttrOr("value", ""); got != `http://example.com/?a="b"` {
		t.Errorf("hidden url = %q", got)
	}
	if form.Find("button#retryBtn").Length() != 1 {
		t.Error("retry button missing")
	}
}

func TestDocument_NoRetryControlOnPlainMessages(t *testing.T) {
	t.Parallel()
	doc := formctl.NewDocument("", "/submit")
	doc.ShowMessage(formctl.Message{Text: "done", Level: formctl.LevelSuccess})
	if strings.Contains(string(doc.State().MessageHTML), "retry") {
		t.Errorf("unexpected retry control: %s", doc.State().MessageHTML)
	}
}

func TestDocument_ClearPanels(t *testing.T) {
	t.Parallel()
	doc := formctl.NewDocument("", "/submit")
	doc.ShowMessage(formctl.Message{Text: "x", Level: formctl.LevelInfo})
	doc.ShowResult(formctl.Card{HTML: "<div></div>"})

	doc.ClearMessage()
	doc.ClearResult()

	st := doc.State()
	if st.Message != nil || st.MessageHTML != "" || st.Result != nil || st.ResultHTML != "" {
		t.Errorf("panels not cleared: %+v", st)
	}
}

func TestDocument_AnyCycleEndReleasesBusy(t *testing.T) {
	t.Parallel()
	doc := formctl.NewDocument("", "/submit")
	doc.SetBusy(true)
	doc.SetBusy(true)
	doc.SetBusy(false)
	if doc.State().Busy || doc.State().SubmitDisabled {
		t.Error("one finished cycle should re-enable the submit control")
	}
	doc.SetBusy(false)
	if doc.State().Busy {
		t.Error("extra release should leave the document idle")
	}
}

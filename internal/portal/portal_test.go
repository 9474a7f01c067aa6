package portal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/browser"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

func TestMain(m *testing.M) {
	if err := i18n.Init("en"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// fakeBrowser serves a scripted portal. Elements not marked present block until the context expires.
type fakeBrowser struct {
	sel Selectors

	present   map[string]bool
	texts     map[string]string
	attrs     map[string]map[string]string
	htmls     map[string]string
	listPages []string
	page      int
	// lateRows counts table reads that still see the empty shell; waiting for rows renders them.
	lateRows  int
	controls  []browser.Control
	failClick map[string]error
	onClick   func(f *fakeBrowser, sel string)

	navigations []string
	clicks      []string
	typed       map[string]string
	drags       []float64
	escapes     int
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		sel:       DefaultSelectors(),
		present:   map[string]bool{},
		texts:     map[string]string{},
		attrs:     map[string]map[string]string{},
		htmls:     map[string]string{},
		failClick: map[string]error{},
		typed:     map[string]string{},
	}
}

func (f *fakeBrowser) has(sel string) bool {
	switch sel {
	case f.sel.ListContainer, f.sel.NextPage:
		return len(f.listPages) > 0
	case f.sel.ListContainer + " " + f.sel.Row:
		return len(f.listPages) > 0 && f.lateRows == 0 && strings.Contains(f.listPages[f.page], "el-table__row")
	case f.sel.AnswerRows:
		return f.present[f.sel.AnswerTable] && f.lateRows == 0 && strings.Contains(f.htmls[f.sel.AnswerTable], "<tr>")
	}
	return f.present[sel]
}

func (f *fakeBrowser) Navigate(_ context.Context, url string) error {
	f.navigations = append(f.navigations, url)
	f.page = 0
	delete(f.present, f.sel.Toast)
	return nil
}

func (f *fakeBrowser) WaitPresent(ctx context.Context, sel string) error {
	if sel == f.sel.ListContainer+" "+f.sel.Row || sel == f.sel.AnswerRows {
		f.lateRows = 0
	}
	if f.has(sel) {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeBrowser) WaitVisible(ctx context.Context, sel string) error {
	return f.WaitPresent(ctx, sel)
}

func (f *fakeBrowser) Exists(_ context.Context, sel string) (bool, error) {
	return f.has(sel), nil
}

func (f *fakeBrowser) Click(_ context.Context, sel string) error {
	f.clicks = append(f.clicks, sel)
	if err := f.failClick[sel]; err != nil {
		return err
	}
	if sel == f.sel.NextPage && f.page < len(f.listPages)-1 {
		f.page++
	}
	if f.onClick != nil {
		f.onClick(f, sel)
	}
	return nil
}

func (f *fakeBrowser) Text(_ context.Context, sel string) (string, error) {
	if !f.has(sel) {
		return "", fmt.Errorf("no element %s", sel)
	}
	return f.texts[sel], nil
}

func (f *fakeBrowser) Attr(_ context.Context, sel, name string) (string, bool, error) {
	if sel == f.sel.NextPage && name == "disabled" {
		if f.page >= len(f.listPages)-1 {
			return "disabled", true, nil
		}
		return "", false, nil
	}
	v, ok := f.attrs[sel][name]
	return v, ok, nil
}

func (f *fakeBrowser) HTML(_ context.Context, sel string) (string, error) {
	switch sel {
	case f.sel.ListContainer:
		if f.lateRows > 0 {
			f.lateRows--
			return tableHTML(), nil
		}
		return f.listPages[f.page], nil
	case f.sel.AnswerTable:
		if f.lateRows > 0 {
			f.lateRows--
			return answersTableHTML(), nil
		}
	}
	return f.htmls[sel], nil
}

func (f *fakeBrowser) Controls(context.Context, string) ([]browser.Control, error) {
	return f.controls, nil
}

func (f *fakeBrowser) SendKeys(_ context.Context, sel, text string) error {
	f.typed[sel] += text
	return nil
}

func (f *fakeBrowser) SetText(_ context.Context, sel, text string) error {
	f.typed[sel] = text
	return nil
}

func (f *fakeBrowser) PressEscape(context.Context) error {
	f.escapes++
	return nil
}

func (f *fakeBrowser) DragBy(_ context.Context, _ string, dx float64) error {
	f.drags = append(f.drags, dx)
	return nil
}

func (f *fakeBrowser) Close() error { return nil }

func newTestClient(t *testing.T, b *fakeBrowser) (*Client, *output.Recorder) {
	t.Helper()
	rec := &output.Recorder{}
	c := New(b, Config{
		WaitTimeout:    100 * time.Millisecond,
		NoticeWait:     20 * time.Millisecond,
		AudioProbeWait: 20 * time.Millisecond,
		AnswersWait:    20 * time.Millisecond,
		FillInterval:   time.Millisecond,
	}, rec)
	return c, rec
}

type row struct {
	title  string
	status string
}

func rowHTML(r row) string {
	var b strings.Builder
	b.WriteString(`<tr class="el-table__row">`)
	b.WriteString(`<td><div><span>2024-03-01 08:00</span></div></td>`)
	b.WriteString(`<td><div><span>2024-03-08 22:00</span></div></td>`)
	if r.title != "" {
		b.WriteString(`<td><div><span>` + r.title + `</span></div></td>`)
	} else {
		b.WriteString(`<td><div></div></td>`)
	}
	b.WriteString(`<td><div>Ms. Li</div></td>`)
	b.WriteString(`<td><div><span>60</span></div></td>`)
	b.WriteString(`<td><div><span><span>85</span><span>100</span></span></div></td>`)
	b.WriteString(`<td><div><span>是</span></div></td>`)
	b.WriteString(`<td></td><td></td><td></td>`)
	b.WriteString(`<td><div><span><button><span>` + r.status + `</span></button></span></div></td>`)
	b.WriteString(`<td><div><div><button>查看</button><button>原卷</button></div></div></td>`)
	b.WriteString(`</tr>`)
	return b.String()
}

func tableHTML(rows ...row) string {
	var b strings.Builder
	b.WriteString(`<div class="el-table__body-wrapper"><table><tbody>`)
	for _, r := range rows {
		b.WriteString(rowHTML(r))
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

func TestListHomeworkPaginates(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{
		tableHTML(row{"Unit 1", "已完成"}, row{"Unit 2", "去完成"}),
		tableHTML(row{"Unit 3", "补做"}),
	}
	c, _ := newTestClient(t, b)

	records := c.ListHomework(context.Background())

	require.Len(t, records, 3)
	assert.Equal(t, "Unit 1", records[0].Title)
	assert.Equal(t, "Unit 2", records[1].Title)
	assert.Equal(t, "Unit 3", records[2].Title)
	assert.Equal(t, model.StatusCompleted, records[0].Status)
	assert.Equal(t, model.StatusNotCompleted, records[1].Status)
	assert.Equal(t, model.StatusMakeUp, records[2].Status)
	assert.Equal(t, 1, records[1].Page)
	assert.Equal(t, 1, records[1].Row)
	assert.Equal(t, 2, records[2].Page)
	assert.Equal(t, 0, records[2].Row)

	var nextClicks int
	for _, s := range b.clicks {
		if s == b.sel.NextPage {
			nextClicks++
		}
	}
	assert.Equal(t, 1, nextClicks)
}

func TestListHomeworkFields(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "进行中"})}
	c, _ := newTestClient(t, b)

	records := c.ListHomework(context.Background())

	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "2024-03-01 08:00", model.Value(r.StartTime))
	assert.Equal(t, "Ms. Li", model.Value(r.Teacher))
	assert.Equal(t, "85", model.Value(r.CurrentScore))
	assert.Equal(t, "100", model.Value(r.TotalScore))
	assert.Equal(t, "是", model.Value(r.IsPass))
	assert.Nil(t, r.TeacherComment, "missing cell must be nil")
	assert.Equal(t, model.StatusInProgress, r.Status)
}

func TestListHomeworkMissingTitle(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "已完成"}, row{"", "去完成"})}
	c, sink := newTestClient(t, b)

	records := c.ListHomework(context.Background())

	assert.Empty(t, records)
	assert.True(t, sink.Has(output.LevelError, "could not read the homework list"))

	_, err := c.scrapeAll(context.Background())
	assert.ErrorIs(t, err, apperr.ErrScrape)
}

func TestListHomeworkWaitsForRows(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "已完成"}, row{"Unit 2", "去完成"})}
	b.lateRows = 1
	c, sink := newTestClient(t, b)

	records := c.ListHomework(context.Background())

	require.Len(t, records, 2)
	assert.Equal(t, "Unit 2", records[1].Title)
	assert.Empty(t, sink.Messages)
}

func TestListHomeworkEmptyTable(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML()}
	c, sink := newTestClient(t, b)

	records, err := c.scrapeAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.True(t, sink.Has(output.LevelWarning, "page 1 of the homework list has no rows"))
	assert.False(t, sink.Has(output.LevelError, "could not read the homework list"))
}

func TestListHomeworkUnreachable(t *testing.T) {
	b := newFakeBrowser()
	c, _ := newTestClient(t, b)

	assert.Empty(t, c.ListHomework(context.Background()))

	_, err := c.scrapeAll(context.Background())
	assert.ErrorIs(t, err, apperr.ErrNavigationTimeout)
}

func TestGotoItemPage(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "已完成"}), tableHTML(row{"Unit 2", "去完成"})}
	c, _ := newTestClient(t, b)

	rec := model.HomeworkRecord{Title: "Unit 2", Status: model.StatusNotCompleted, Page: 2, Row: 0}
	require.NoError(t, c.GotoItemPage(context.Background(), rec))

	assert.Equal(t, []string{b.sel.NextPage, c.rowControl(rec, b.sel.Status)}, b.clicks)
}

func TestGotoItemPageCompletedUsesViewOriginal(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "已完成"})}
	c, _ := newTestClient(t, b)

	rec := model.HomeworkRecord{Title: "Unit 1", Status: model.StatusCompleted, Page: 1, Row: 0}
	require.NoError(t, c.GotoItemPage(context.Background(), rec))
	assert.Equal(t, []string{c.rowControl(rec, b.sel.ViewOriginal)}, b.clicks)
}

func TestGotoItemPageNotice(t *testing.T) {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "去完成"})}
	b.onClick = func(f *fakeBrowser, sel string) {
		if strings.HasSuffix(sel, f.sel.Status) {
			f.present[f.sel.Toast] = true
			f.texts[f.sel.Toast] = "作业已截止"
		}
	}
	c, sink := newTestClient(t, b)

	rec := model.HomeworkRecord{Title: "Unit 1", Status: model.StatusNotCompleted, Page: 1}
	err := c.GotoItemPage(context.Background(), rec)

	var notice *apperr.NoticeError
	require.ErrorAs(t, err, &notice)
	assert.Equal(t, "作业已截止", notice.Text)
	assert.True(t, sink.Has(output.LevelError, "作业已截止"))
}

func TestGotoItemPageUnsupportedStatus(t *testing.T) {
	b := newFakeBrowser()
	c, _ := newTestClient(t, b)

	err := c.GotoItemPage(context.Background(), model.HomeworkRecord{Title: "x", Status: model.StatusUnknown})

	assert.ErrorIs(t, err, apperr.ErrUnsupportedStatus)
	assert.Empty(t, b.navigations)
}

func TestGotoCompletedAnswersPageInvalidState(t *testing.T) {
	b := newFakeBrowser()
	c, _ := newTestClient(t, b)

	err := c.GotoCompletedAnswersPage(context.Background(), model.HomeworkRecord{Title: "x", Status: model.StatusInProgress})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = c.ExistingAnswers(context.Background(), model.HomeworkRecord{Title: "x", Status: model.StatusMakeUp})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	assert.Empty(t, b.navigations)
}

func answersTableHTML(contents ...string) string {
	var b strings.Builder
	b.WriteString(`<div class="el-table el-table--scrollable-y"><div></div><div></div><div><table><colgroup></colgroup><tbody>`)
	for i, c := range contents {
		fmt.Fprintf(&b, `<tr><td>%d</td><td></td><td><div><span>%s</span></div></td></tr>`, i+1, c)
	}
	b.WriteString(`</tbody></table></div></div>`)
	return b.String()
}

func completedFixture(contents ...string) *fakeBrowser {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "已完成"})}
	b.present[b.sel.DialogViewCompleted] = true
	b.present[b.sel.AnswerTable] = true
	b.htmls[b.sel.AnswerTable] = answersTableHTML(contents...)
	return b
}

func TestExistingAnswers(t *testing.T) {
	b := completedFixture("A", "apple", "z")
	c, _ := newTestClient(t, b)
	rec := model.HomeworkRecord{Title: "Unit 1", Status: model.StatusCompleted, Page: 1}

	answers, err := c.ExistingAnswers(context.Background(), rec)

	require.NoError(t, err)
	assert.Equal(t, []model.AnswerEntry{
		{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
		{Index: 2, Type: model.AnswerFillInBlanks, Content: "apple"},
		{Index: 3, Type: model.AnswerFillInBlanks, Content: "z"},
	}, answers)
	assert.Equal(t, DefaultListURL, b.navigations[len(b.navigations)-1])
}

func TestExistingAnswersEmptyTable(t *testing.T) {
	b := completedFixture()
	c, sink := newTestClient(t, b)
	rec := model.HomeworkRecord{Title: "Unit 1", Status: model.StatusCompleted, Page: 1}

	answers, err := c.ExistingAnswers(context.Background(), rec)

	require.NoError(t, err)
	assert.Empty(t, answers)
	assert.True(t, sink.Has(output.LevelWarning, "empty"))
}

func TestExistingAnswersWaitsForRows(t *testing.T) {
	b := completedFixture("B", "went")
	b.lateRows = 1
	c, sink := newTestClient(t, b)
	rec := model.HomeworkRecord{Title: "Unit 1", Status: model.StatusCompleted, Page: 1}

	answers, err := c.ExistingAnswers(context.Background(), rec)

	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "went", answers[1].Content)
	assert.False(t, sink.Has(output.LevelWarning, "empty"))
}

func itemFixture() *fakeBrowser {
	b := newFakeBrowser()
	b.listPages = []string{tableHTML(row{"Unit 1", "去完成"})}
	b.present[b.sel.Paper] = true
	b.texts[b.sel.Paper] = "1. Listen and choose."
	return b
}

var unit1 = model.HomeworkRecord{Title: "Unit 1", Status: model.StatusNotCompleted, Page: 1}

func TestQuestionTextReturnsToList(t *testing.T) {
	b := itemFixture()
	c, _ := newTestClient(t, b)

	text, err := c.QuestionText(context.Background(), unit1)

	require.NoError(t, err)
	assert.Equal(t, "1. Listen and choose.", text)
	require.Len(t, b.navigations, 2)
	assert.Equal(t, DefaultListURL, b.navigations[1])
}

func TestQuestionTextMissingPaper(t *testing.T) {
	b := itemFixture()
	delete(b.present, b.sel.Paper)
	c, _ := newTestClient(t, b)

	_, err := c.QuestionText(context.Background(), unit1)

	assert.ErrorIs(t, err, apperr.ErrNavigationTimeout)
	assert.Equal(t, DefaultListURL, b.navigations[len(b.navigations)-1], "must return to list on failure")
}

func TestAudioURL(t *testing.T) {
	b := itemFixture()
	b.present[b.sel.Audio] = true
	b.attrs[b.sel.Audio] = map[string]string{"src": "https://cdn.example.com/u1.mp3"}
	c, _ := newTestClient(t, b)

	url, ok, err := c.AudioURL(context.Background(), unit1)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/u1.mp3", url)
}

func TestAudioURLNoAudio(t *testing.T) {
	b := itemFixture()
	c, sink := newTestClient(t, b)

	url, ok, err := c.AudioURL(context.Background(), unit1)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, url)
	assert.True(t, sink.Has(output.LevelWarning, "no audio"))
}

func TestAudioURLNoAudioChinese(t *testing.T) {
	b := itemFixture()
	c, sink := newTestClient(t, b)
	ctx := i18n.WithLocalizer(context.Background(), i18n.NewLocalizer("zh"))

	_, ok, err := c.AudioURL(ctx, unit1)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, sink.Has(output.LevelWarning, "该作业没有音频"))
}

func TestProbeAudio(t *testing.T) {
	b := newFakeBrowser()
	c, _ := newTestClient(t, b)
	assert.False(t, c.ProbeAudio(context.Background()))

	b.present[b.sel.Audio] = true
	assert.True(t, c.ProbeAudio(context.Background()))
}

func quizFixture() *fakeBrowser {
	b := itemFixture()
	b.present[b.sel.QuizScope] = true
	b.controls = []browser.Control{
		{Type: "radio", Name: "q1", Value: "A"},
		{Type: "radio", Name: "q1", Value: "B"},
		{Type: "text", Name: "q2"},
		{Type: "radio", Name: "q3", Value: "A"},
		{Type: "radio", Name: "q3", Value: "B"},
	}
	return b
}

const (
	q1A = "#taskContent input[type='radio'][name='q1'][value='A']"
	q2  = "#taskContent input[type='text'][name='q2']"
	q3B = "#taskContent input[type='radio'][name='q3'][value='B']"
)

func TestFillAnswers(t *testing.T) {
	tests := []struct {
		name       string
		answers    []model.AnswerEntry
		failClick  string
		wantErr    error
		wantReport FillReport
		wantClicks []string
		wantTyped  map[string]string
		wantWarn   string
	}{
		{
			name: "all questions",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
				{Index: 2, Type: model.AnswerFillInBlanks, Content: "went"},
				{Index: 3, Type: model.AnswerChoice, Content: "B"},
			},
			wantReport: FillReport{Questions: 3, Filled: 3},
			wantClicks: []string{q1A, q3B},
			wantTyped:  map[string]string{q2: "went"},
		},
		{
			name: "choice letter is normalized",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "a"},
				{Index: 2, Type: model.AnswerFillInBlanks, Content: "went"},
				{Index: 3, Type: model.AnswerChoice, Content: " b \n"},
			},
			wantReport: FillReport{Questions: 3, Filled: 3},
			wantClicks: []string{q1A, q3B},
			wantTyped:  map[string]string{q2: "went"},
		},
		{
			name: "fewer answers truncate",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
			},
			wantReport: FillReport{Questions: 1, Filled: 1},
			wantClicks: []string{q1A},
			wantTyped:  map[string]string{},
			wantWarn:   "only 1 answers provided for 3 questions",
		},
		{
			name: "excess answers ignored",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
				{Index: 2, Type: model.AnswerFillInBlanks, Content: "went"},
				{Index: 3, Type: model.AnswerChoiceOrFill, Content: "B"},
				{Index: 4, Type: model.AnswerFillInBlanks, Content: "extra"},
			},
			wantReport: FillReport{Questions: 3, Filled: 3},
			wantClicks: []string{q1A, q3B},
			wantTyped:  map[string]string{q2: "went"},
		},
		{
			name: "mismatch aborts",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
				{Index: 2, Type: model.AnswerChoice, Content: "C"},
				{Index: 3, Type: model.AnswerChoiceOrFill, Content: "B"},
			},
			wantErr:    apperr.ErrAnswerMismatch,
			wantReport: FillReport{Questions: 3, Filled: 1},
			wantClicks: []string{q1A},
			wantTyped:  map[string]string{},
		},
		{
			name: "control failure continues",
			answers: []model.AnswerEntry{
				{Index: 1, Type: model.AnswerChoiceOrFill, Content: "A"},
				{Index: 2, Type: model.AnswerFillInBlanks, Content: "went"},
				{Index: 3, Type: model.AnswerChoiceOrFill, Content: "B"},
			},
			failClick:  q1A,
			wantReport: FillReport{Questions: 3, Filled: 2, Failed: 1},
			wantClicks: []string{q1A, q3B},
			wantTyped:  map[string]string{q2: "went"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := quizFixture()
			if tt.failClick != "" {
				b.failClick[tt.failClick] = errors.New("element not interactable")
			}
			c, sink := newTestClient(t, b)

			report, err := c.FillAnswers(context.Background(), unit1, tt.answers)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.True(t, sink.Has(output.LevelInfo, "submit manually"))
			}
			assert.Equal(t, tt.wantReport, report)

			var quizClicks []string
			for _, s := range b.clicks {
				if strings.HasPrefix(s, "#taskContent") {
					quizClicks = append(quizClicks, s)
				}
			}
			assert.Equal(t, tt.wantClicks, quizClicks)
			assert.Equal(t, tt.wantTyped, b.typed)
			if tt.wantWarn != "" {
				assert.True(t, sink.Has(output.LevelWarning, tt.wantWarn))
			}
			assert.Equal(t, DefaultListURL, b.navigations[len(b.navigations)-1])
		})
	}
}

func TestCSSString(t *testing.T) {
	assert.Equal(t, `'q1'`, cssString("q1"))
	assert.Equal(t, `'it\'s'`, cssString("it's"))
	assert.Equal(t, `'a\\b'`, cssString(`a\b`))
}

func TestLogin(t *testing.T) {
	b := newFakeBrowser()
	for _, s := range []string{b.sel.LoginButton, b.sel.SchoolItem, b.sel.SliderHandle, b.sel.AccountDropdown} {
		b.present[s] = true
	}
	c, sink := newTestClient(t, b)

	err := c.Login(context.Background(), Credentials{School: "No. 1 Middle School", Username: "s001", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, []string{DefaultLoginURL}, b.navigations)
	assert.Equal(t, "No. 1 Middle School", b.typed[b.sel.School])
	assert.Equal(t, "s001", b.typed[b.sel.Account])
	assert.Equal(t, "pw", b.typed[b.sel.Password])
	assert.Equal(t, []float64{sliderDistance}, b.drags)
	assert.Equal(t, 1, b.escapes)
	assert.True(t, sink.Has(output.LevelSuccess, "s001"))
}

func TestLoginRejected(t *testing.T) {
	b := newFakeBrowser()
	for _, s := range []string{b.sel.LoginButton, b.sel.SchoolItem, b.sel.SliderHandle} {
		b.present[s] = true
	}
	c, _ := newTestClient(t, b)

	err := c.Login(context.Background(), Credentials{School: "s", Username: "u", Password: "bad"})
	assert.ErrorIs(t, err, apperr.ErrNavigationTimeout)
}

func TestLogout(t *testing.T) {
	b := newFakeBrowser()
	c, sink := newTestClient(t, b)

	require.NoError(t, c.Logout(context.Background()))
	assert.True(t, sink.Has(output.LevelWarning, "not logged in"))
	assert.Empty(t, b.clicks)

	b.present[b.sel.AccountDropdown] = true
	b.present[b.sel.LoginButton] = true
	require.NoError(t, c.Logout(context.Background()))
	assert.Equal(t, []string{b.sel.AccountDropdown, b.sel.LogoutButton, b.sel.LogoutConfirm}, b.clicks)
}

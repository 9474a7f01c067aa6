package portal

// Selectors addresses every portal element the client touches. All values are CSS selectors.
// Row-relative selectors (cells and row buttons) are resolved inside a table row.
type Selectors struct {
	School          string `mapstructure:"school"`
	SchoolItem      string `mapstructure:"school_item"`
	Account         string `mapstructure:"account"`
	Password        string `mapstructure:"password"`
	SliderHandle    string `mapstructure:"slider_handle"`
	LoginButton     string `mapstructure:"login_button"`
	AccountDropdown string `mapstructure:"account_dropdown"`
	LogoutButton    string `mapstructure:"logout_button"`
	LogoutConfirm   string `mapstructure:"logout_confirm"`

	ListContainer string `mapstructure:"list_container"`
	Row           string `mapstructure:"row"`
	StartTime     string `mapstructure:"start_time"`
	EndTime       string `mapstructure:"end_time"`
	Title         string `mapstructure:"title"`
	Teacher       string `mapstructure:"teacher"`
	PassScore     string `mapstructure:"pass_score"`
	CurrentScore  string `mapstructure:"current_score"`
	TotalScore    string `mapstructure:"total_score"`
	IsPass        string `mapstructure:"is_pass"`
	TeacherWords  string `mapstructure:"teacher_words"`
	Status        string `mapstructure:"status"`
	NextPage      string `mapstructure:"next_page"`

	ViewCompleted       string `mapstructure:"view_completed"`
	DialogViewCompleted string `mapstructure:"dialog_view_completed"`
	ViewOriginal        string `mapstructure:"view_original"`
	Toast               string `mapstructure:"toast"`

	Paper       string `mapstructure:"paper"`
	Audio       string `mapstructure:"audio"`
	QuizInputs  string `mapstructure:"quiz_inputs"`
	QuizScope   string `mapstructure:"quiz_scope"`
	AnswerTable string `mapstructure:"answer_table"`
	AnswerRows  string `mapstructure:"answer_rows"`
	AnswerText  string `mapstructure:"answer_text"`
}

// DefaultSelectors returns the selectors matching the portal's current markup.
func DefaultSelectors() Selectors {
	return Selectors{
		School:          ".el-select > div:nth-child(1) > input:nth-child(1)",
		SchoolItem:      ".el-select-dropdown__item > span:nth-child(1)",
		Account:         "div:nth-child(2) > div:nth-child(1) > div:nth-child(1) > input:nth-child(1)",
		Password:        "div:nth-child(3) > div:nth-child(1) > div:nth-child(1) > input:nth-child(1)",
		SliderHandle:    ".el-icon-d-arrow-right",
		LoginButton:     "div.el-form-item:nth-child(7) > div:nth-child(1) > button:nth-child(1) > span:nth-child(1) > span:nth-child(1)",
		AccountDropdown: ".avatar-container",
		LogoutButton:    ".el-dropdown-menu__item--divided",
		LogoutConfirm:   "button.el-button--default:nth-child(2)",

		ListContainer: ".el-table__body-wrapper",
		Row:           "tr.el-table__row",
		StartTime:     "td:nth-child(1) > div:nth-child(1) > span:nth-child(1)",
		EndTime:       "td:nth-child(2) > div:nth-child(1) > span:nth-child(1)",
		Title:         "td:nth-child(3) > div:nth-child(1) > span:nth-child(1)",
		Teacher:       "td:nth-child(4) > div:nth-child(1)",
		PassScore:     "td:nth-child(5) > div:nth-child(1) > span:nth-child(1)",
		CurrentScore:  "td:nth-child(6) > div:nth-child(1) > span:nth-child(1) > span:nth-child(1)",
		TotalScore:    "td:nth-child(6) > div:nth-child(1) > span:nth-child(1) > span:nth-child(2)",
		IsPass:        "td:nth-child(7) > div:nth-child(1) > span:nth-child(1)",
		TeacherWords:  "td:nth-child(9) > div:nth-child(1)",
		Status:        "td:nth-child(11) > div:nth-child(1) > span:nth-child(1) > button:nth-child(1) > span:nth-child(1)",
		NextPage:      ".btn-next",

		ViewCompleted:       "td:nth-child(12) > div:nth-child(1) > div:nth-child(1) > button:nth-child(1)",
		DialogViewCompleted: "td.el-table_2_column_17 > div:nth-child(1) > button:nth-child(1) > span:nth-child(1)",
		ViewOriginal:        "td:nth-child(12) > div:nth-child(1) > div:nth-child(1) > button:nth-child(2)",
		Toast:               ".el-message",

		Paper:       ".el-dialog__body",
		Audio:       "audio",
		QuizScope:   "#taskContent",
		QuizInputs:  "#taskContent input[type='radio'], #taskContent input[type='text']",
		AnswerTable: ".el-table--scrollable-y",
		AnswerRows:  ".el-table--scrollable-y > div:nth-child(3) > table:nth-child(1) > tbody:nth-child(2) > tr",
		AnswerText:  "td:nth-child(3) > div:nth-child(1) > span:nth-child(1)",
	}
}

// withDefaults fills every empty selector from DefaultSelectors.
func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.School, d.School)
	fill(&s.SchoolItem, d.SchoolItem)
	fill(&s.Account, d.Account)
	fill(&s.Password, d.Password)
	fill(&s.SliderHandle, d.SliderHandle)
	fill(&s.LoginButton, d.LoginButton)
	fill(&s.AccountDropdown, d.AccountDropdown)
	fill(&s.LogoutButton, d.LogoutButton)
	fill(&s.LogoutConfirm, d.LogoutConfirm)
	fill(&s.ListContainer, d.ListContainer)
	fill(&s.Row, d.Row)
	fill(&s.StartTime, d.StartTime)
	fill(&s.EndTime, d.EndTime)
	fill(&s.Title, d.Title)
	fill(&s.Teacher, d.Teacher)
	fill(&s.PassScore, d.PassScore)
	fill(&s.CurrentScore, d.CurrentScore)
	fill(&s.TotalScore, d.TotalScore)
	fill(&s.IsPass, d.IsPass)
	fill(&s.TeacherWords, d.TeacherWords)
	fill(&s.Status, d.Status)
	fill(&s.NextPage, d.NextPage)
	fill(&s.ViewCompleted, d.ViewCompleted)
	fill(&s.DialogViewCompleted, d.DialogViewCompleted)
	fill(&s.ViewOriginal, d.ViewOriginal)
	fill(&s.Toast, d.Toast)
	fill(&s.Paper, d.Paper)
	fill(&s.Audio, d.Audio)
	fill(&s.QuizScope, d.QuizScope)
	fill(&s.QuizInputs, d.QuizInputs)
	fill(&s.AnswerTable, d.AnswerTable)
	fill(&s.AnswerRows, d.AnswerRows)
	fill(&s.AnswerText, d.AnswerText)
	return s
}

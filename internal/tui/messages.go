package tui

// answerMsg 在一次提问结束后回到 Update
type answerMsg struct {
	question string
	answer   string
	err      error
}

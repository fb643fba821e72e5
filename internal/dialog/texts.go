package dialog

const (
	goBackKey = "0"

	enterOptionText      = "\nEnter an option to continue..\n"
	invalidOptionText    = "Incorrect option. Please try again\n"
	emptyDescriptionText = "Description should not be empty. Please try again\n"
	noTodosText          = "No todos found.\n\n"
	staleSelectionText   = "The selected todo no longer exists.\n"
)

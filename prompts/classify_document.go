package prompts

// ClassifyDocumentInstruction returns the fixed extraction instruction sent
// with an insurance document to the document-understanding collaborator.
func ClassifyDocumentInstruction() (string, error) {
	return loadPrompt("templates/classify_document.md", map[string]string{})
}

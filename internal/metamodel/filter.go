package metamodel

// IsFiltered reports whether an element is unreleased and should be left out
// of the generated documents. Changing and Proposed elements are filtered
// unless they are also marked TechPreview.
func IsFiltered(md Metadata) bool {
	if md.Len() == 0 {
		return false
	}
	if md.Has(TechPreviewTag) {
		return false
	}
	return md.Has(ChangingTag) || md.Has(ProposedTag)
}

package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func wrappedLabel(desc string, importance widget.Importance, style fyne.TextStyle) *widget.Label {
	label := widget.NewLabel(desc)
	label.Wrapping = fyne.TextWrapWord
	label.Importance = importance
	label.TextStyle = style
	return label
}

// CreateSectionTitleLabel creates a label for a section title
func CreateSectionTitleLabel(desc string) *widget.Label {
	return wrappedLabel(desc, widget.HighImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingTitleLabel creates a label for a setting title
func CreateSettingTitleLabel(desc string) *widget.Label {
	return wrappedLabel(desc, widget.MediumImportance, fyne.TextStyle{Bold: true})
}

// CreateSettingDescriptionLabel creates a label for a setting description
func CreateSettingDescriptionLabel(desc string) *widget.Label {
	return wrappedLabel(desc, widget.LowImportance, fyne.TextStyle{Italic: true})
}

// itemCaption is the centered, single line label under a fence item.
func itemCaption(name string) *widget.Label {
	label := widget.NewLabel(name)
	label.Alignment = fyne.TextAlignCenter
	label.Truncation = fyne.TextTruncateEllipsis
	label.SizeName = theme.SizeNameCaptionText
	return label
}

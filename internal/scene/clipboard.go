package scene

import "github.com/atotto/clipboard"

// setClipboardText copies text to the system clipboard. Empty text is
// replaced by a space so the clipboard is always overwritten.
func setClipboardText(text string) error {
	if text == "" {
		text = " "
	}
	return clipboard.WriteAll(text)
}

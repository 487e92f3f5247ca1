package engage

import "github.com/ajrudell/engagekit/internal/browser"

// Selectors for the post action bar. Kept together so platform DOM churn
// means editing one file.
const (
	postContentQuery   = `div.update-components-text span[dir="ltr"]`
	likeButtonQuery    = `button.react-button__trigger[aria-label*="Like"]`
	commentButtonQuery = `button[id^="feed-shared-social-action-bar-comment-"]`
	commentEditorQuery = `div.editor-content.ql-container div.ql-editor[contenteditable="true"]`
)

// submitStrategies locate the comment submit control. The platform ships
// several generations of this button concurrently, so the first strategy
// that matches wins.
var submitStrategies = []browser.Strategy{
	{Name: "cr-submit", Query: `button.comments-comment-box__submit-button--cr`},
	{Name: "classic-submit", Query: `button.comments-comment-box__submit-button`},
	{Name: "post-comment-label", Query: `button[aria-label="Post comment"]`},
	{Name: "post-label", Query: `button[aria-label="Post"]`},
}

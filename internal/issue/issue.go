// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	DocumentNotFoundId
	TemplateRenderFailedId
	SourceRootMissingId
	PublishFailedId
)

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// Issue is a catalog entry with Markdown guidance.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Could not load the project configuration

multisrc reads ` + "`multisrc.cue`" + ` from the current directory, or the file
passed with ` + "`--config`" + `.

## Things you can try
- Create a starter file:
~~~
$ multisrc init
~~~
- Check the CUE syntax and the field types (` + "`source_suffix`" + ` is a list
  of strings starting with a dot, ` + "`multisrc_paths`" + ` is a list of directories).`,
	}

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# Document not found

No configured source root holds a file for this document name. Roots are
searched in order: the primary ` + "`source_dir`" + ` first, then every extra entry
of ` + "`multisrc_paths`" + `.

## Things you can try
- List what is discoverable:
~~~
$ multisrc docs
~~~
- Check the file suffix against ` + "`source_suffix`" + `.`,
	}

	templateRenderFailedIssue = &Issue{
		id: TemplateRenderFailedId,
		mdMsg: `
# Template error in a source document

Every document is rendered as a Jinja template before it is parsed.

## Things you can try
- Escape literal braces with ` + "`{% raw %}...{% endraw %}`" + `.
- Make sure included files live under one of the configured source roots.`,
	}

	sourceRootMissingIssue = &Issue{
		id: SourceRootMissingId,
		mdMsg: `
# Source root does not exist

The primary ` + "`source_dir`" + ` must be an existing directory; extra roots may be
missing and then simply contribute no documents.`,
	}

	publishFailedIssue = &Issue{
		id: PublishFailedId,
		mdMsg: `
# Publishing the site failed

## Things you can try
- Run ` + "`multisrc build`" + ` first so the HTML output exists.
- Check the AWS credentials and region (` + "`AWS_PROFILE`" + `, ` + "`AWS_REGION`" + `).`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		documentNotFoundIssue.Id():     documentNotFoundIssue,
		templateRenderFailedIssue.Id(): templateRenderFailedIssue,
		sourceRootMissingIssue.Id():    sourceRootMissingIssue,
		publishFailedIssue.Id():        publishFailedIssue,
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw guidance text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance for the terminal with the given glamour style
// ("dark", "light", "notty", "auto" or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// Values returns all catalog entries ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, is)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id - b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

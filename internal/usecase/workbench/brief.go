package workbench

import (
	"context"
	"fmt"
	"strings"

	"github.com/genie-legal/intake-backend/internal/classify"
	"github.com/genie-legal/intake-backend/internal/entity"
)

// Export renders the current document configuration as a downloadable
// drafting brief.
type Export struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportBrief builds the drafting brief for a conversation in the
// requested format.
func (u *Usecase) ExportBrief(ctx context.Context, id string, format entity.ExportFormat) (*Export, error) {
	conv, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := u.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	title := briefTitle(conv)
	data, err := f.Format(title, buildBrief(conv))
	if err != nil {
		return nil, fmt.Errorf("format brief: %w", err)
	}

	return &Export{
		Data:        data,
		ContentType: f.ContentType(),
		Filename:    slugify(title) + f.FileExtension(),
	}, nil
}

func briefTitle(conv *entity.Conversation) string {
	if len(conv.CreateDocs) == 1 {
		return conv.CreateDocs[0] + " draft brief"
	}
	return "Draft brief"
}

// buildBrief lays out the configuration as plain text so every
// formatter renders the same content.
func buildBrief(conv *entity.Conversation) string {
	var b strings.Builder

	writeSection(&b, "Creating", conv.CreateDocs)
	writeSection(&b, "Based on", conv.BasedOnDocs)

	for _, doc := range conv.CreateDocs {
		fmt.Fprintf(&b, "Key clauses — %s\n", doc)
		for i, clause := range classify.KeyClauses(doc) {
			marker := "[x]"
			if !conv.ClauseVisible(doc, i) {
				marker = "[ ]"
			}
			fmt.Fprintf(&b, "%s %s\n", marker, clause)
			if details := conv.ClauseDetails[entity.ClauseKey(doc, i)]; details != "" {
				fmt.Fprintf(&b, "    %s\n", details)
			}
		}
		for _, custom := range conv.CustomClauses[doc] {
			if custom.Name == "" {
				continue
			}
			fmt.Fprintf(&b, "[x] %s (custom)\n", custom.Name)
			if custom.Details != "" {
				fmt.Fprintf(&b, "    %s\n", custom.Details)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Draft settings\n")
	fmt.Fprintf(&b, "Length: %d\n", conv.Settings.Length)
	fmt.Fprintf(&b, "Favourability: %d\n", conv.Settings.Favourability)
	fmt.Fprintf(&b, "Tone: %d\n", conv.Settings.Tone)

	if conv.GoverningLaw != "" {
		fmt.Fprintf(&b, "Governing law: %s\n", conv.GoverningLaw)
	}
	if conv.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", conv.Language)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title + "\n")
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

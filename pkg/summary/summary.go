// Package summary produces the natural-language production summary.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

// MaxRecords bounds how many production records are sent to the model.
const MaxRecords = 50

//go:generate mockgen -destination=mocks/mock_summary.go -package=mocks . Summarizer

type Summarizer interface {
	GenerateSummary(ctx context.Context, records []models.ProductionRecord) (string, error)
}

// GenerationError is shown inline in place of the summary text.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type SimplifiedRecord struct {
	MachineName string  `json:"machineName"`
	Produced    int     `json:"produced"`
	Scrap       int     `json:"scrap"`
	CycleTime   float64 `json:"cycleTime"`
}

// Simplify keeps the first MaxRecords records in the fields the prompt uses.
func Simplify(records []models.ProductionRecord) []SimplifiedRecord {
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return common.Mapper(records, func(r models.ProductionRecord) SimplifiedRecord {
		return SimplifiedRecord{
			MachineName: r.MachineName,
			Produced:    r.QuantityProduced,
			Scrap:       r.ScrapCount,
			CycleTime:   r.CycleTime,
		}
	})
}

const promptTemplate = `
Analyze the following manufacturing production data for the last 24 hours.
Provide a concise, insightful summary for a plant manager.
Highlight key achievements, potential issues (like high scrap rates or long cycle times on specific machines), and overall production efficiency.
Structure the output as a brief paragraph followed by a few bullet points for specific highlights.

Data:
%s
`

func BuildPrompt(records []SimplifiedRecord) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, data), nil
}

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
)

type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

var markdown = goldmark.New()

// Blocks parses a summary as markdown into paragraphs and bullet lists.
// Adjacent lists are merged, since models switch bullet characters freely.
// Inline markup is kept as written.
func Blocks(text string) []Block {
	src := []byte(strings.TrimSpace(text))
	blocks := []Block{}
	if len(src) == 0 {
		return blocks
	}

	doc := markdown.Parser().Parse(gmtext.NewReader(src))
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		list, ok := n.(*ast.List)
		if !ok {
			if t := blockText(n, src); t != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: t})
			}
			continue
		}

		items := listItems(list, src)
		if last := len(blocks) - 1; last >= 0 && blocks[last].Kind == BlockList {
			blocks[last].Items = append(blocks[last].Items, items...)
		} else {
			blocks = append(blocks, Block{Kind: BlockList, Items: items})
		}
	}
	return blocks
}

func blockText(n ast.Node, src []byte) string {
	segs := n.Lines()
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimSpace(string(seg.Value(src))))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func listItems(list *ast.List, src []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if t := blockText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		items = append(items, strings.Join(parts, " "))
	}
	return items
}

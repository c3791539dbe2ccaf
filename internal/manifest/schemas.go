// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import "github.com/pdiddy/paperbatch/internal/gemini"

// Extraction prompts, one per document kind.
var prompts = map[Kind]string{
	KindQuestionPaper: "Extract the full exam paper structure.",
	KindMemo:          "Extract the marking guidelines.",
}

// PromptFor returns the extraction prompt for a document kind.
func PromptFor(kind Kind) string { return prompts[kind] }

// SchemaFor returns the response schema for a document kind.
func SchemaFor(kind Kind) *gemini.Schema { return schemas[kind] }

var schemas = map[Kind]*gemini.Schema{
	KindQuestionPaper: questionPaperSchema,
	KindMemo:          memoSchema,
}

// questionPaperSchema describes an extracted question paper: paper
// metadata plus question groups, each holding questions with marks and
// optional multiple-choice options.
var questionPaperSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"subject":     {Type: gemini.TypeString},
		"year":        {Type: gemini.TypeInteger},
		"session":     {Type: gemini.TypeString},
		"total_marks": {Type: gemini.TypeInteger},
		"groups": {
			Type: gemini.TypeArray,
			Items: &gemini.Schema{
				Type: gemini.TypeObject,
				Properties: map[string]*gemini.Schema{
					"group_id": {Type: gemini.TypeString},
					"title":    {Type: gemini.TypeString},
					"questions": {
						Type: gemini.TypeArray,
						Items: &gemini.Schema{
							Type: gemini.TypeObject,
							Properties: map[string]*gemini.Schema{
								"id":    {Type: gemini.TypeString},
								"text":  {Type: gemini.TypeString},
								"marks": {Type: gemini.TypeInteger},
								"options": {
									Type: gemini.TypeArray,
									Items: &gemini.Schema{
										Type: gemini.TypeObject,
										Properties: map[string]*gemini.Schema{
											"label": {Type: gemini.TypeString},
											"text":  {Type: gemini.TypeString},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	},
}

// memoSchema describes an extracted marking memorandum: paper metadata
// plus sections of model answers keyed to question IDs.
var memoSchema = &gemini.Schema{
	Type: gemini.TypeObject,
	Properties: map[string]*gemini.Schema{
		"meta": {
			Type: gemini.TypeObject,
			Properties: map[string]*gemini.Schema{
				"subject":     {Type: gemini.TypeString},
				"year":        {Type: gemini.TypeInteger},
				"session":     {Type: gemini.TypeString},
				"paper":       {Type: gemini.TypeString},
				"total_marks": {Type: gemini.TypeInteger},
			},
		},
		"sections": {
			Type: gemini.TypeArray,
			Items: &gemini.Schema{
				Type: gemini.TypeObject,
				Properties: map[string]*gemini.Schema{
					"section_id": {Type: gemini.TypeString},
					"questions": {
						Type: gemini.TypeArray,
						Items: &gemini.Schema{
							Type: gemini.TypeObject,
							Properties: map[string]*gemini.Schema{
								"id": {Type: gemini.TypeString},
								"model_answers": {
									Type:  gemini.TypeArray,
									Items: &gemini.Schema{Type: gemini.TypeString},
								},
								"answers": {
									Type: gemini.TypeArray,
									Items: &gemini.Schema{
										Type: gemini.TypeObject,
										Properties: map[string]*gemini.Schema{
											"sub_id": {Type: gemini.TypeString},
											"value":  {Type: gemini.TypeString},
											"marks":  {Type: gemini.TypeInteger},
										},
									},
								},
								"marks":              {Type: gemini.TypeInteger},
								"marker_instruction": {Type: gemini.TypeString},
							},
						},
					},
				},
			},
		},
	},
}

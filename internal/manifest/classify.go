// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import "strings"

// Kind distinguishes the two document types the extraction schemas
// cover: the exam question paper and its marking memorandum.
type Kind int

const (
	KindQuestionPaper Kind = iota
	KindMemo
)

func (k Kind) String() string {
	switch k {
	case KindMemo:
		return "memo"
	default:
		return "question_paper"
	}
}

// Classify determines a document's kind from its filename alone. A
// filename containing "MEMO" or "MG" anywhere, in any case, is a
// marking memorandum; everything else is a question paper.
func Classify(filename string) Kind {
	upper := strings.ToUpper(filename)
	if strings.Contains(upper, "MEMO") || strings.Contains(upper, "MG") {
		return KindMemo
	}
	return KindQuestionPaper
}

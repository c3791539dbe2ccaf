// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"Bio_P1_MEMO.pdf", KindMemo},
		{"Bio_P1_QP.pdf", KindQuestionPaper},
		{"Physics_mg_2021.pdf", KindMemo},
		{"physics_memo_final.pdf", KindMemo},
		{"MG_Accounting.pdf", KindMemo},
		{"Maths_Grade12_P2.pdf", KindQuestionPaper},
		{"English_HL_2020.pdf", KindQuestionPaper},
		{"memorandum.pdf", KindMemo},
		{"", KindQuestionPaper},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "memo", KindMemo.String())
	assert.Equal(t, "question_paper", KindQuestionPaper.String())
}

func TestPromptAndSchemaTables(t *testing.T) {
	assert.Equal(t, "Extract the full exam paper structure.", PromptFor(KindQuestionPaper))
	assert.Equal(t, "Extract the marking guidelines.", PromptFor(KindMemo))

	qp := SchemaFor(KindQuestionPaper)
	memo := SchemaFor(KindMemo)
	assert.NotNil(t, qp)
	assert.NotNil(t, memo)
	assert.NotSame(t, qp, memo)
	assert.Contains(t, qp.Properties, "groups")
	assert.Contains(t, memo.Properties, "sections")
}

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: "2", want: 2},
		{raw: "1.5", want: 1.5},
		{raw: "3/4", want: 0.75},
		{raw: "1 1/2", want: 1.5},
		{raw: "2 3/4", want: 2.75},
		{raw: "", want: 0},
		{raw: "½", want: 0},     // unicode 分數不轉換，保留原文顯示
		{raw: "2-3", want: 0},   // 範圍不猜值
		{raw: "1/0", want: 0},   // 除零
		{raw: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw))
		})
	}
}

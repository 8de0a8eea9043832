package v1_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	charskema "github.com/reoring/charskema"
	v1 "github.com/reoring/charskema/schema/v1"
)

// chatJSON returns a chat document with n text messages and unique ids.
func chatJSON(n int) []byte {
	var buf bytes.Buffer
	buf.Grow(n * 96)
	buf.WriteString(`{"id":"chat","characterId":"c","messages":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":"m%d","chatId":"chat","role":"user","content":{"type":"text","data":"line %d"}}`, i, i)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func characterJSON() []byte {
	return []byte(`{
		"specVersion": 1, "id": "c", "name": "n", "description": "d",
		"prompt": {"description": "p", "lorebook": {"config": {"tokenLimit": 10}}}
	}`)
}

func Benchmark_ParseJSON_Character(b *testing.B) {
	ctx := context.Background()
	data := characterJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := charskema.ParseJSON(ctx, v1.CharacterSchema, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ParseFrom_Chat(b *testing.B) {
	for _, n := range []int{10, 1000} {
		b.Run(fmt.Sprintf("messages=%d", n), func(b *testing.B) {
			ctx := context.Background()
			data := chatJSON(n)
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				src := charskema.JSONReader(bytes.NewReader(data))
				if _, err := charskema.ParseFrom(ctx, v1.ChatSchema, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Validation on an already decoded value skips the token layer.
func Benchmark_Validate_Chat_Value(b *testing.B) {
	ctx := context.Background()
	v, err := charskema.Decode(charskema.JSONBytes(chatJSON(1000)), charskema.ParseOpt{})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := v1.ChatSchema.Validate(ctx, v); err != nil {
			b.Fatal(err)
		}
	}
}

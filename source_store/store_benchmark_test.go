package source_store

import (
	"fmt"
	"strings"
	"testing"
)

func componentSource(lines int) string {
	var builder strings.Builder
	builder.WriteString("<template>\n  <div>{{ total }}</div>\n</template>\n<script lang=\"ts\">\n")
	for i := 0; i < lines; i++ {
		fmt.Fprintf(&builder, "export const value%d: number = %d\n", i, i)
	}
	builder.WriteString("</script>\n")
	return builder.String()
}

// BenchmarkContentVersion measures fingerprinting of typical file sizes.
func BenchmarkContentVersion(b *testing.B) {
	for _, lines := range []int{10, 200, 2000} {
		text := componentSource(lines)
		b.Run(fmt.Sprintf("%d_lines", lines), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = ContentVersion(text)
			}
		})
	}
}

// BenchmarkUpsert compares a save with identical content against a real edit.
func BenchmarkUpsert(b *testing.B) {
	text := componentSource(200)
	edited := componentSource(201)

	b.Run("Unchanged", func(b *testing.B) {
		store := NewVirtualSourceStore(StoreOptions{})
		if _, err := store.Upsert("src/Total.vue", &text); err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = store.Upsert("src/Total.vue", &text)
		}
	})

	b.Run("Changed", func(b *testing.B) {
		store := NewVirtualSourceStore(StoreOptions{})
		for i := 0; i < b.N; i++ {
			current := &text
			if i%2 == 1 {
				current = &edited
			}
			_, _ = store.Upsert("src/Total.vue", current)
		}
	})
}

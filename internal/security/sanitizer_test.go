package security

import "testing"

func TestTextSanitizer_Sanitize(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text passes through", "朝食はオートミール 200g", "朝食はオートミール 200g"},
		{"script tag removed", `<script>alert("x")</script>高タンパク食`, "高タンパク食"},
		{"html tags stripped", "<b>タンパク質</b>を<i>毎食</i>摂取", "タンパク質を毎食摂取"},
		{"img with onerror removed", `<img src=x onerror=alert(1)>メモ`, "メモ"},
		{"whitespace trimmed", "  炭水化物を控えめに  ", "炭水化物を控えめに"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// 同一入力への再適用で出力が変化しないこと。
func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := `<p>鶏胸肉 300g</p> と <a href="https://example.com">参考リンク</a>`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("sanitize not idempotent: first %q, second %q", once, twice)
	}
}

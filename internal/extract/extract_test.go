package extract

import "testing"

func TestFromChunks(t *testing.T) {
	cases := []struct {
		name   string
		chunks []string
		want   string
	}{
		{name: "no marker", chunks: []string{"Стокова разписка", "Получил: Петър"}, want: ""},
		{name: "empty input", chunks: nil, want: ""},
		{name: "same chunk", chunks: []string{"Предал: Мария Петрова"}, want: "Мария Петрова"},
		{name: "same chunk nbsp", chunks: []string{"ПРЕДАЛ: Георги Георгиев"}, want: "Георги Георгиев"},
		{name: "next chunk fallback", chunks: []string{"ПРЕДАЛ:", "Иван Иванов"}, want: "Иван Иванов"},
		{name: "next chunk is a label", chunks: []string{"ПРЕДАЛ:", "Получил:"}, want: ""},
		{name: "marker mid chunk", chunks: []string{"Стока предал: Иван"}, want: "Иван"},
		{
			// A barren first occurrence must not stop the scan.
			name:   "second occurrence wins",
			chunks: []string{"ПРЕДАЛ:", "Получил:", "предал: Димитър Димитров"},
			want:   "Димитър Димитров",
		},
		{
			// A usable first occurrence stops the scan.
			name:   "first usable occurrence wins",
			chunks: []string{"Предал: Мария", "Предал: Иван"},
			want:   "Мария",
		},
		{name: "next chunk blank then nothing", chunks: []string{"ПРЕДАЛ", "   "}, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FromChunks(tc.chunks); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name untouched", input: "Иван Иванов", want: "Иван Иванов"},
		{name: "boilerplate suffix", input: "Иван Иванов (име, фамилия, подпис):", want: "Иван Иванов"},
		{name: "boilerplate prefix", input: "(Име, Фамилия, Подпис): Иван", want: "Иван"},
		{name: "trailing colon", input: "Иван: ", want: "Иван"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

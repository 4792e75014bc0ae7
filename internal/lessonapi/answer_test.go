package lessonapi

import "testing"

func TestAnswerEncode(t *testing.T) {
	tests := []struct {
		name string
		ans  Answer
		want string
	}{
		{"choice", ChoiceAnswer("B"), "B"},
		{"single blank", FillAnswer(map[int]string{0: "print"}), `{"0":"print"}`},
		{"keys sorted", FillAnswer(map[int]string{2: "c", 0: "a", 1: "b"}), `{"0":"a","1":"b","2":"c"}`},
		{"escaped", FillAnswer(map[int]string{0: `say "hi"`}), `{"0":"say \"hi\""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ans.Encode(); got != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFillAnswer_Copies(t *testing.T) {
	blanks := map[int]string{0: "a"}
	ans := FillAnswer(blanks)
	blanks[0] = "changed"

	idx, vals := ans.Blanks()
	if len(idx) != 1 || vals[0] != "a" {
		t.Fatalf("Blanks() = %v %v, want original value", idx, vals)
	}
	if !ans.IsFill() {
		t.Error("expected fill answer")
	}
	if ChoiceAnswer("A").IsFill() {
		t.Error("choice answer reported as fill")
	}
}

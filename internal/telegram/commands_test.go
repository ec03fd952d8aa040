package telegram

import (
	"errors"
	"testing"

	botModels "github.com/go-telegram/bot/models"
)

func TestCommandName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: "start"},
		{text: "/settimer 5", want: "settimer"},
		{text: "/Status@auto_delete_bot", want: "status"},
		{text: "hello /start", want: ""},
		{text: "", want: ""},
		{text: "/", want: ""},
	}

	for _, tt := range tests {
		if got := commandName(tt.text); got != tt.want {
			t.Fatalf("commandName(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestMatchCommand(t *testing.T) {
	match := matchCommand(commandSetTimer)

	if !match(&botModels.Update{Message: &botModels.Message{Text: "/settimer 5"}}) {
		t.Fatalf("expected /settimer to match")
	}
	if match(&botModels.Update{Message: &botModels.Message{Text: "/settimerx 5"}}) {
		t.Fatalf("expected /settimerx not to match")
	}
	if match(&botModels.Update{}) {
		t.Fatalf("expected update without message not to match")
	}
}

func TestParseSetTimerArgs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{name: "minutes", text: "/settimer 5", want: 5},
		{name: "seconds", text: "/settimer   300", want: 300},
		{name: "zero parses", text: "/settimer 0", want: 0},
		{name: "missing", text: "/settimer", wantErr: true},
		{name: "non numeric", text: "/settimer five", wantErr: true},
		{name: "float", text: "/settimer 1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSetTimerArgs(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrUsage) {
					t.Fatalf("expected ErrUsage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseSetTimerArgs() = %d, want %d", got, tt.want)
			}
		})
	}
}

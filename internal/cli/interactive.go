package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shouni/etsy-booster-kit/internal/controller"
	"github.com/shouni/etsy-booster-kit/internal/terminal"
	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

func newTrendsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Analyse current Etsy marketplace trends with search grounding",
		RunE: func(cmd *cobra.Command, _ []string) error {
			broker := app.broker()
			gw, err := app.gateway(broker)
			if err != nil {
				return err
			}
			t, err := controller.NewTrendSpy(gw, broker)
			if err != nil {
				return err
			}

			t.Activate(cmd.Context())
			if snap := t.Snapshot(); snap.NeedsCredential && !app.noPrompt {
				terminal.RenderTrends(app.Out, snap)
				if err := t.SelectCredential(cmd.Context()); err != nil {
					return err
				}
			}

			snap := t.Snapshot()
			terminal.RenderTrends(app.Out, snap)
			if snap.State == controller.StateError || snap.NeedsCredential {
				return errFailed
			}
			return nil
		},
	}
}

// exitWords はチャットを終了する入力です。
var exitWords = map[string]bool{"exit": true, "quit": true, "/exit": true}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the Etsy expert assistant (type exit to quit)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			broker := app.broker()
			gw, err := app.gateway(broker)
			if err != nil {
				return err
			}
			c, err := controller.NewChat(gw)
			if err != nil {
				return err
			}
			c.Open()
			defer c.Close()

			terminal.RenderChatMessage(app.Out, domain.ChatMessage{Role: domain.RoleAssistant, Text: controller.ChatGreeting})
			scanner := bufio.NewScanner(app.In)
			for {
				fmt.Fprint(app.Out, terminal.LabelStyle.Render("> "))
				if !scanner.Scan() {
					break
				}
				line := scanner.Text()
				if exitWords[strings.ToLower(strings.TrimSpace(line))] {
					break
				}
				if err := c.Send(cmd.Context(), line); err != nil {
					if errors.Is(err, controller.ErrEmptyMessage) {
						continue
					}
					return err
				}
				msgs := c.Snapshot().Messages
				terminal.RenderChatMessage(app.Out, msgs[len(msgs)-1])
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("入力の読み込みに失敗しました: %w", err)
			}
			return nil
		},
	}
}

package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

var _ = Describe("Model", func() {
	var (
		bridge *shared.EventBridge
		model  Model
	)

	send := func(msg tea.Msg) tea.Cmd {
		next, cmd := model.Update(msg)
		model = next.(Model)

		return cmd
	}

	event := func(e syncengine.Event) tea.Cmd {
		return send(shared.EngineEventMsg{Event: e})
	}

	completed := func(n int, outcome syncengine.Outcome, rel string) {
		var err error
		if outcome == syncengine.OutcomeFailed {
			err = os.ErrPermission
		}

		event(syncengine.FileCompleted{
			Processed: n,
			Total:     4,
			BytesDone: int64(n * 100),
			Result: syncengine.FileResult{
				Task:    syncengine.FileTask{SourcePath: "/src/" + rel, TargetPath: "/dst/" + rel, RelativePath: rel, Size: 100},
				Outcome: outcome,
				Bytes:   100,
				Err:     err,
			},
		})
	}

	BeforeEach(func() {
		bridge = shared.NewEventBridge()
		DeferCleanup(bridge.Close)

		model = NewModel(syncengine.Config{SourceRoot: "/src", TargetRoot: "/dst", Workers: 4}, bridge)
	})

	Describe("while scanning", func() {
		It("shows the roots and a scanning label", func() {
			view := model.View()

			Expect(view).To(ContainSubstring("/src → /dst"))
			Expect(view).To(ContainSubstring("Scanning source tree"))
		})

		It("shows the file count once the scan is done", func() {
			event(syncengine.PhaseChanged{Phase: syncengine.PhaseStructureMirrored})
			event(syncengine.ScanComplete{Files: 4, Bytes: 400})

			Expect(model.View()).To(ContainSubstring("Found 4 files"))
		})

		It("keeps listening after each event", func() {
			cmd := event(syncengine.PhaseChanged{Phase: syncengine.PhaseScanning})
			Expect(cmd).ToNot(BeNil())
		})
	})

	Describe("while copying", func() {
		BeforeEach(func() {
			event(syncengine.ScanComplete{Files: 4, Bytes: 400})
			event(syncengine.PhaseChanged{Phase: syncengine.PhaseCopying})
			event(syncengine.SyncStarted{Files: 4, Bytes: 400, Workers: 2})
		})

		It("tracks progress from FileCompleted events", func() {
			completed(1, syncengine.OutcomeCopied, "a.txt")
			completed(2, syncengine.OutcomeUpToDate, "b.txt")

			Expect(model.processed).To(Equal(2))
			Expect(model.bytesDone).To(Equal(int64(200)))
			Expect(model.percent()).To(BeNumerically("~", 0.5))

			view := model.View()
			Expect(view).To(ContainSubstring("2 / 4"))
			Expect(view).To(ContainSubstring("1 copied, 1 up to date, 0 failed"))
			Expect(view).To(ContainSubstring("Workers: 2"))
		})

		It("logs copied files but not up-to-date ones", func() {
			completed(1, syncengine.OutcomeCopied, "a.txt")
			completed(2, syncengine.OutcomeUpToDate, "b.txt")

			Expect(model.recent).To(HaveLen(1))
			Expect(model.recent[0]).To(ContainSubstring("a.txt"))
		})

		It("keeps only the most recent entries", func() {
			for i := 1; i <= shared.RecentActivityLimit+3; i++ {
				completed(i, syncengine.OutcomeCopied, "f.txt")
			}

			Expect(model.recent).To(HaveLen(shared.RecentActivityLimit))
		})

		It("lists failed files", func() {
			completed(1, syncengine.OutcomeFailed, "secret.txt")

			Expect(model.failures).To(HaveLen(1))
			Expect(model.View()).To(ContainSubstring("Errors (1)"))
			Expect(model.View()).To(ContainSubstring("/src/secret.txt"))
		})

		It("counts unreadable directories", func() {
			event(syncengine.ErrorOccurred{Phase: syncengine.PhaseScanning, Err: errors.New("scan /src/locked: denied")})

			Expect(model.View()).To(ContainSubstring("1 directory could not be read"))
		})
	})

	Describe("a dry run", func() {
		It("labels the view and counts pending files", func() {
			model = NewModel(syncengine.Config{SourceRoot: "/src", TargetRoot: "/dst", Workers: 1, DryRun: true}, bridge)
			event(syncengine.ScanComplete{Files: 4, Bytes: 400})
			event(syncengine.PhaseChanged{Phase: syncengine.PhaseCopying})
			completed(1, syncengine.OutcomePending, "a.txt")

			view := model.View()
			Expect(view).To(ContainSubstring("(dry run)"))
			Expect(view).To(ContainSubstring("1 would sync"))
		})
	})

	Describe("finishing", func() {
		It("stores the result and quits", func() {
			report := &syncengine.Report{TotalFiles: 4}

			cmd := send(shared.SyncFinishedMsg{Report: report})

			Expect(model.Done()).To(BeTrue())
			Expect(model.Aborted()).To(BeFalse())
			Expect(cmd()).To(Equal(tea.Quit()))

			got, err := model.Result()
			Expect(got).To(BeIdenticalTo(report))
			Expect(err).ToNot(HaveOccurred())
		})

		It("stops ticking once done", func() {
			send(shared.SyncFinishedMsg{})

			Expect(send(shared.RefreshMsg{})).To(BeNil())
		})

		It("reports a full bar for an empty run", func() {
			send(shared.SyncFinishedMsg{Report: &syncengine.Report{}})

			Expect(model.percent()).To(Equal(1.0))
		})
	})

	Describe("keys", func() {
		It("aborts on ctrl+c before the sync is done", func() {
			cmd := send(tea.KeyMsg{Type: tea.KeyCtrlC})

			Expect(model.Aborted()).To(BeTrue())
			Expect(cmd()).To(Equal(tea.Quit()))
		})

		It("ignores other keys", func() {
			Expect(send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})).To(BeNil())
			Expect(model.Aborted()).To(BeFalse())
		})
	})

	Describe("resizing", func() {
		It("fits the progress bar to the window", func() {
			send(tea.WindowSizeMsg{Width: 60, Height: 20})
			Expect(model.progress.Width).To(Equal(48))

			send(tea.WindowSizeMsg{Width: 400, Height: 20})
			Expect(model.progress.Width).To(Equal(shared.MaxProgressBarWidth))
		})
	})
})

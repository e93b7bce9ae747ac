package shared_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/internal/tui/shared"
)

//nolint:paralleltest // Modifies package-level color detection
func TestOutcomeSymbol_PlainTerminal(t *testing.T) {
	g := NewWithT(t)

	defer shared.SetColorsDisabledForTesting(true)()

	g.Expect(shared.OutcomeSymbol(syncengine.OutcomeCopied)).To(Equal("+"))
	g.Expect(shared.OutcomeSymbol(syncengine.OutcomeUpToDate)).To(Equal("="))
	g.Expect(shared.OutcomeSymbol(syncengine.OutcomePending)).To(Equal("o"))
	g.Expect(shared.OutcomeSymbol(syncengine.OutcomeFailed)).To(Equal("x"))
	g.Expect(shared.WarningSymbol()).To(Equal("!"))
}

//nolint:paralleltest // Modifies package-level color detection
func TestOutcomeSymbol_ColorTerminal(t *testing.T) {
	g := NewWithT(t)

	defer shared.SetColorsDisabledForTesting(false)()

	g.Expect(shared.OutcomeSymbol(syncengine.OutcomeCopied)).To(Equal("✓"))
	g.Expect(shared.OutcomeSymbol(syncengine.OutcomePending)).To(Equal("○"))
	g.Expect(shared.OutcomeSymbol(syncengine.OutcomeFailed)).To(Equal("✗"))
	g.Expect(shared.WarningSymbol()).To(Equal("⚠"))
}

func TestOutcomeStyle_SetsFailuresApart(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	copied := shared.OutcomeStyle(syncengine.OutcomeCopied).GetForeground()
	failed := shared.OutcomeStyle(syncengine.OutcomeFailed).GetForeground()
	pending := shared.OutcomeStyle(syncengine.OutcomePending).GetForeground()

	g.Expect(shared.OutcomeStyle(syncengine.OutcomeUpToDate).GetForeground()).To(Equal(copied))
	g.Expect(failed).ToNot(Equal(copied))
	g.Expect(pending).ToNot(Equal(copied))
	g.Expect(pending).ToNot(Equal(failed))
}

func TestRenderBox_FramesTheView(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	box := shared.RenderBox(shared.RenderTitle("mirror-sync") + "\n" + shared.RenderSubtitle("/src → /dst"))

	g.Expect(box).To(ContainSubstring("╭"))
	g.Expect(box).To(ContainSubstring("╯"))
	g.Expect(box).To(ContainSubstring("mirror-sync"))
	g.Expect(box).To(ContainSubstring("/src → /dst"))
}

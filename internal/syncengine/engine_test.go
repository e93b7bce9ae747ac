package syncengine_test

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/joe/mirror-sync/internal/syncengine"
	"github.com/joe/mirror-sync/pkg/filesystem"
)

// recorder collects emitted events.
type recorder struct {
	mu     sync.Mutex
	events []syncengine.Event
}

func (r *recorder) Emit(event syncengine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *recorder) phases() []syncengine.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	var phases []syncengine.Phase

	for _, event := range r.events {
		if changed, ok := event.(syncengine.PhaseChanged); ok {
			phases = append(phases, changed.Phase)
		}
	}

	return phases
}

func (r *recorder) completed() []syncengine.FileCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()

	var done []syncengine.FileCompleted

	for _, event := range r.events {
		if fc, ok := event.(syncengine.FileCompleted); ok {
			done = append(done, fc)
		}
	}

	return done
}

var _ = Describe("Engine", func() {
	var (
		fs     *filesystem.MockFileSystem
		events *recorder
		cfg    syncengine.Config
		mtime  time.Time
	)

	run := func() (*syncengine.Report, error) {
		engine, err := syncengine.NewEngine(cfg,
			syncengine.WithFileSystem(fs),
			syncengine.WithEmitter(events),
			syncengine.WithLogger(zap.NewNop()))
		Expect(err).ToNot(HaveOccurred())

		report, err := engine.Run()
		Expect(engine.Phase()).To(Equal(syncengine.PhaseDone))

		return report, err
	}

	BeforeEach(func() {
		fs = filesystem.NewMockFileSystem()
		events = &recorder{}
		cfg = syncengine.Config{SourceRoot: "/src", TargetRoot: "/dst", Workers: 4}
		mtime = time.Date(2023, 5, 6, 7, 8, 9, 0, time.UTC)

		fs.AddFile("/src/a.txt", []byte("hello"), mtime)
		fs.AddFile("/src/sub/b.txt", []byte("world"), mtime)
	})

	Describe("a fresh sync", func() {
		It("copies every file and mirrors the tree", func() {
			report, err := run()

			Expect(err).ToNot(HaveOccurred())
			Expect(report.TotalFiles).To(Equal(2))
			Expect(report.FilesSynced).To(Equal(2))
			Expect(report.ErrorCount).To(Equal(0))
			Expect(report.FilesCopied).To(Equal(2))
			Expect(report.BytesCopied).To(Equal(int64(10)))
			Expect(report.FilesSkipped).To(Equal(0))
			Expect(report.DirsCreated).To(Equal(2))

			data, gotM, err := fs.GetFile("/dst/sub/b.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("world"))
			Expect(gotM).To(Equal(mtime))
		})

		It("walks the phases in order", func() {
			_, err := run()
			Expect(err).ToNot(HaveOccurred())

			Expect(events.phases()).To(Equal([]syncengine.Phase{
				syncengine.PhaseScanning,
				syncengine.PhaseStructureMirrored,
				syncengine.PhaseCopying,
				syncengine.PhaseAggregating,
				syncengine.PhaseDone,
			}))
		})

		It("emits one FileCompleted per task with a rising count", func() {
			_, err := run()
			Expect(err).ToNot(HaveOccurred())

			done := events.completed()
			Expect(done).To(HaveLen(2))
			Expect(done[0].Processed).To(Equal(1))
			Expect(done[1].Processed).To(Equal(2))
			Expect(done[1].Total).To(Equal(2))
			Expect(done[1].BytesDone).To(Equal(int64(10)))
		})

		It("ends with a SyncComplete carrying the report", func() {
			report, _ := run()

			last := events.events[len(events.events)-1]
			Expect(last).To(Equal(syncengine.SyncComplete{Report: report}))
		})
	})

	Describe("a second run", func() {
		It("copies nothing", func() {
			_, err := run()
			Expect(err).ToNot(HaveOccurred())

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesSynced).To(Equal(2))
			Expect(report.FilesCopied).To(Equal(0))
			Expect(report.FilesUpToDate).To(Equal(2))
			Expect(report.DirsCreated).To(Equal(0))
		})
	})

	Describe("an unreadable source file", func() {
		BeforeEach(func() {
			fs.FailOn(filesystem.OpOpen, "/src/a.txt", os.ErrPermission)
		})

		It("fails that file and syncs the rest", func() {
			report, err := run()

			Expect(err).To(MatchError(syncengine.ErrFilesFailed))
			Expect(err).To(MatchError(os.ErrPermission))
			Expect(syncengine.IsStructural(err)).To(BeFalse())

			Expect(report.TotalFiles).To(Equal(2))
			Expect(report.FilesSynced).To(Equal(1))
			Expect(report.ErrorCount).To(Equal(1))
			Expect(report.Failures).To(HaveLen(1))
			Expect(report.Failures[0].SourcePath).To(Equal("/src/a.txt"))

			Expect(fs.Exists("/dst/sub/b.txt")).To(BeTrue())
		})

		It("reports the failure through the task's event", func() {
			_, _ = run()

			var failed []syncengine.FileResult

			for _, fc := range events.completed() {
				if fc.Result.Outcome == syncengine.OutcomeFailed {
					failed = append(failed, fc.Result)
				}
			}

			Expect(failed).To(HaveLen(1))
			Expect(failed[0].Task.RelativePath).To(Equal("a.txt"))
		})
	})

	Describe("an unchanged mtime", func() {
		It("trusts the target even when content differs", func() {
			fs.AddFile("/dst/a.txt", []byte("HELLO"), mtime)

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesUpToDate).To(Equal(1))
			Expect(report.FilesCopied).To(Equal(1))

			data, _, err := fs.GetFile("/dst/a.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("HELLO"))
		})
	})

	Describe("an edit within the same second", func() {
		It("is not copied because mtimes compare at whole seconds", func() {
			fs.AddFile("/src/a.txt", []byte("HELLO"), mtime.Add(300*time.Millisecond))
			fs.AddFile("/dst/a.txt", []byte("hello"), mtime)

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesUpToDate).To(Equal(1))

			data, _, err := fs.GetFile("/dst/a.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("hello"))
		})

		It("is copied once the mtime moves to the next second", func() {
			fs.AddFile("/src/a.txt", []byte("HELLO"), mtime.Add(time.Second))
			fs.AddFile("/dst/a.txt", []byte("hello"), mtime)

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.FilesCopied).To(Equal(2))

			data, _, err := fs.GetFile("/dst/a.txt")
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("HELLO"))
		})
	})

	Describe("a dry run", func() {
		BeforeEach(func() {
			cfg.DryRun = true
		})

		It("writes nothing and counts pending files as synced", func() {
			before := fs.ListFiles()

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(fs.ListFiles()).To(Equal(before))

			Expect(report.FilesSynced).To(Equal(2))
			Expect(report.FilesPending).To(Equal(2))
			Expect(report.FilesCopied).To(Equal(0))
			Expect(report.DirsCreated).To(Equal(0))
		})

		It("leaves a stale target untouched", func() {
			old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
			fs.AddFile("/dst/a.txt", []byte("old"), old)
			fs.AddFile("/dst/sub/b.txt", []byte("WORLD"), old)
			fs.AddFile("/src/same.txt", []byte("same"), mtime)
			fs.AddFile("/dst/same.txt", []byte("same"), mtime)
			fs.AddFile("/src/fresh/c.txt", []byte("c"), mtime)

			before := fs.ListFiles()

			report, err := run()
			Expect(err).ToNot(HaveOccurred())

			Expect(report.TotalFiles).To(Equal(4))
			Expect(report.FilesPending).To(Equal(3))
			Expect(report.FilesUpToDate).To(Equal(1))
			Expect(report.DirsCreated).To(Equal(0))

			Expect(fs.ListFiles()).To(Equal(before))
			Expect(fs.Exists("/dst/fresh")).To(BeFalse())

			for path, content := range map[string]string{
				"/dst/a.txt":     "old",
				"/dst/sub/b.txt": "WORLD",
			} {
				data, gotM, err := fs.GetFile(path)
				Expect(err).ToNot(HaveOccurred())
				Expect(string(data)).To(Equal(content), path)
				Expect(gotM).To(Equal(old), path)
			}
		})

		It("runs a single worker", func() {
			_, _ = run()

			for _, event := range events.events {
				if started, ok := event.(syncengine.SyncStarted); ok {
					Expect(started.Workers).To(Equal(1))
					Expect(started.DryRun).To(BeTrue())
				}
			}
		})
	})

	DescribeTable("worker counts produce the same result",
		func(workers int) {
			for i := range 50 {
				fs.AddFile(filepath.Join("/src/many", string(rune('a'+i%26)), "f"+string(rune('a'+i/26))), []byte("x"), mtime)
			}

			cfg.Workers = workers

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.TotalFiles).To(Equal(52))
			Expect(report.FilesSynced).To(Equal(52))
			Expect(report.FilesCopied).To(Equal(52))
			Expect(events.completed()).To(HaveLen(52))
		},
		Entry("one worker", 1),
		Entry("four workers", 4),
		Entry("more workers than files", 64),
	)

	Describe("structural failures", func() {
		It("rejects a missing source", func() {
			cfg.SourceRoot = "/nope"

			report, err := run()
			Expect(err).To(MatchError(syncengine.ErrSourceMissing))
			Expect(syncengine.IsStructural(err)).To(BeTrue())
			Expect(report.TotalFiles).To(Equal(0))
			Expect(fs.Exists("/dst")).To(BeFalse())
			Expect(events.phases()).To(Equal([]syncengine.Phase{syncengine.PhaseScanning, syncengine.PhaseDone}))
		})

		It("rejects a source that is a file", func() {
			cfg.SourceRoot = "/src/a.txt"

			_, err := run()
			Expect(err).To(MatchError(syncengine.ErrSourceNotDirectory))
		})

		It("stops when the target root cannot be created", func() {
			fs.FailOn(filesystem.OpMkdir, "/dst", os.ErrPermission)

			report, err := run()
			Expect(err).To(MatchError(syncengine.ErrTargetUncreatable))
			Expect(syncengine.IsStructural(err)).To(BeTrue())
			Expect(report.FilesProcessed).To(Equal(0))
			Expect(events.completed()).To(BeEmpty())
		})
	})

	Describe("traversal problems", func() {
		It("records an unreadable directory and still succeeds", func() {
			fs.AddFile("/src/locked/c.txt", []byte("c"), mtime)
			fs.FailOn(filesystem.OpReadDir, "/src/locked", os.ErrPermission)

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.TotalFiles).To(Equal(2))
			// Both the mirror and the scan walk hit it.
			Expect(report.TraversalErrors).To(HaveLen(2))
			Expect(report.TraversalErrors[0]).To(MatchError(os.ErrPermission))
		})
	})

	Describe("an empty source", func() {
		It("succeeds without starting workers", func() {
			fs = filesystem.NewMockFileSystem()
			fs.AddDir("/src", mtime)

			report, err := run()
			Expect(err).ToNot(HaveOccurred())
			Expect(report.TotalFiles).To(Equal(0))
			Expect(report.Success()).To(BeTrue())
			Expect(fs.Exists("/dst")).To(BeTrue())
			Expect(events.phases()).To(Equal([]syncengine.Phase{
				syncengine.PhaseScanning,
				syncengine.PhaseStructureMirrored,
				syncengine.PhaseDone,
			}))
		})
	})

	Describe("RunSync", func() {
		It("returns true on success", func() {
			report, ok := syncengine.RunSync(cfg, syncengine.WithFileSystem(fs))
			Expect(ok).To(BeTrue())
			Expect(report.FilesSynced).To(Equal(2))
		})

		It("returns false with a nil report for an invalid config", func() {
			cfg.Workers = 0

			report, ok := syncengine.RunSync(cfg)
			Expect(ok).To(BeFalse())
			Expect(report).To(BeNil())
		})

		It("returns false with a report when a file fails", func() {
			fs.FailOn(filesystem.OpCreate, "/dst/a.txt", os.ErrPermission)

			report, ok := syncengine.RunSync(cfg, syncengine.WithFileSystem(fs))
			Expect(ok).To(BeFalse())
			Expect(report.ErrorCount).To(Equal(1))
		})
	})

	Describe("on the real filesystem", func() {
		It("does not modify a stale target on a dry run", func() {
			src := GinkgoT().TempDir()
			dst := GinkgoT().TempDir()
			old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

			Expect(os.MkdirAll(filepath.Join(src, "new"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(src, "a"), []byte("current"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(src, "new", "b"), []byte("b"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(dst, "a"), []byte("old"), 0o644)).To(Succeed())
			Expect(os.Chtimes(filepath.Join(dst, "a"), old, old)).To(Succeed())

			report, ok := syncengine.RunSync(syncengine.Config{SourceRoot: src, TargetRoot: dst, Workers: 4, DryRun: true})
			Expect(ok).To(BeTrue())
			Expect(report.FilesPending).To(Equal(2))

			data, err := os.ReadFile(filepath.Join(dst, "a"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("old"))

			info, err := os.Stat(filepath.Join(dst, "a"))
			Expect(err).ToNot(HaveOccurred())
			Expect(info.ModTime()).To(BeTemporally("==", old))

			Expect(filepath.Join(dst, "new")).ToNot(BeAnExistingFile())
		})

		It("preserves modification times", func() {
			src := GinkgoT().TempDir()
			dst := filepath.Join(GinkgoT().TempDir(), "mirror")

			Expect(os.MkdirAll(filepath.Join(src, "sub"), 0o755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("world"), 0o644)).To(Succeed())
			Expect(os.Chtimes(filepath.Join(src, "sub", "b.txt"), mtime, mtime)).To(Succeed())

			report, ok := syncengine.RunSync(syncengine.Config{SourceRoot: src, TargetRoot: dst, Workers: 2})
			Expect(ok).To(BeTrue())
			Expect(report.FilesCopied).To(Equal(2))

			info, err := os.Stat(filepath.Join(dst, "sub", "b.txt"))
			Expect(err).ToNot(HaveOccurred())
			Expect(info.ModTime()).To(BeTemporally("~", mtime, time.Second))

			again, ok := syncengine.RunSync(syncengine.Config{SourceRoot: src, TargetRoot: dst, Workers: 2})
			Expect(ok).To(BeTrue())
			Expect(again.FilesUpToDate).To(Equal(2))
		})
	})
})

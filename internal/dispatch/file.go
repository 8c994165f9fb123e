package dispatch

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zjrosen/hollow/internal/log"
)

const backupSuffix = ".hollow-backup"

// readDocument loads the file at path, normalizing line endings to LF.
// A missing file is not an error; it yields an empty document.
func readDocument(path string) (content string, existed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading document: %w", err)
	}
	content = strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return content, true, nil
}

// backupIfNeeded writes a byte-identical copy of the pre-edit content
// next to the document on the first edit of the session. Never
// rewritten within the session.
func (d *Dispatcher) backupIfNeeded() {
	if d.backupDone {
		return
	}
	d.backupDone = true
	if !d.existed {
		return
	}
	if err := os.WriteFile(d.path+backupSuffix, []byte(d.original), 0o600); err != nil {
		log.ErrorErr(log.CatEditor, err, "writing backup", "path", d.path+backupSuffix)
		return
	}
	log.Info(log.CatEditor, "backup written", "path", d.path+backupSuffix)
}

// save writes the document atomically (temp file then rename). Manual
// saves close the open undo group; autosaves leave grouping alone.
func (d *Dispatcher) save(manual bool) error {
	content := d.buf.String()

	tmp := d.path + ".hollow-tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}

	d.modified = false
	d.existed = true
	d.lastSave = d.now()
	d.savedUntil = d.now().Add(savedIndicatorFor)
	if manual {
		d.hist.CloseGroup()
	}
	if d.onSave != nil {
		d.onSave()
	}

	d.observeWords()
	if d.tracker != nil {
		if streak, err := d.tracker.Streak(); err == nil {
			d.streak = streak
		}
	}

	if d.store != nil && (manual || d.cfg.Versions.SaveOnAutosave) {
		if d.store.ContentDiffers(d.path, content) {
			if err := d.store.Record(d.path, content); err != nil {
				log.ErrorErr(log.CatHistory, err, "recording version", "path", d.path)
			}
		}
	}

	log.Debug(log.CatEditor, "document saved", "path", d.path, "manual", manual, "bytes", len(content))
	return nil
}

// Tick performs the periodic maintenance the event loop schedules every
// few hundred milliseconds: the autosave check and status timeouts.
func (d *Dispatcher) Tick() {
	now := d.now()

	if interval := d.cfg.Editor.AutoSaveSeconds; interval > 0 && d.modified {
		if now.Sub(d.lastSave).Seconds() >= float64(interval) {
			// A failed autosave leaves lastSave alone so the next tick
			// retries; the session keeps running either way.
			if err := d.save(false); err != nil {
				d.setStatus("Autosave failed: " + err.Error())
				log.ErrorErr(log.CatEditor, err, "autosave")
			}
		}
	}

	if timeout := d.cfg.Display.StatusTimeout; timeout > 0 && !d.statusTimer.IsZero() {
		if now.Sub(d.statusTimer).Seconds() >= float64(timeout) {
			d.showStatus = false
			d.statusTimer = time.Time{}
		}
	}
}

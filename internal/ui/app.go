// Package ui is the Fyne front end of the acquisition form. All decisions are
// delegated to the controller; this package only wires widgets to its handlers.
package ui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/menta2k/image-acquisition/internal/config"
	"github.com/menta2k/image-acquisition/pkg/controller"
	"github.com/menta2k/image-acquisition/pkg/types"
)

// AppID identifies the application to Fyne preferences storage
const AppID = "com.github.menta2k.image-acquisition"

// form holds the widgets of the main window
type form struct {
	ctrl   *controller.Controller
	window fyne.Window

	url       *widget.Entry
	name      *subjectEntry
	gender    *widget.Select
	ethnicity *widget.Select
	edit      *ImageEdit
	suggest   *widget.Button
	status    *widget.Label
}

// Run opens the main window and blocks until it is closed. edit must be the
// canvas the controller was created with.
func Run(ctrl *controller.Controller, edit *ImageEdit, cfg config.WindowConfig) error {
	a := app.NewWithID(AppID)
	w := a.NewWindow(cfg.Title)
	w.Resize(fyne.NewSize(cfg.Width, cfg.Height))
	w.SetMaster()

	f := &form{ctrl: ctrl, window: w, edit: edit}
	w.SetContent(f.build())
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		f.save()
	})

	log.WithField("subjects", len(ctrl.Registry().Subjects())).Info("window opened")
	w.ShowAndRun()
	return nil
}

func (f *form) build() fyne.CanvasObject {
	f.url = widget.NewEntry()
	f.url.SetPlaceHolder("Image URL")
	f.url.OnSubmitted = func(string) { f.load() }
	loadBtn := widget.NewButton("Load", f.load)

	f.name = newSubjectEntry(f.subjectCommitted)
	f.gender = widget.NewSelect(types.GenderLabels(), nil)
	f.ethnicity = widget.NewSelect(types.EthnicityLabels(), nil)
	f.resetSelectors()

	saveBtn := widget.NewButton("Save", f.save)
	saveBtn.Importance = widget.HighImportance

	f.suggest = widget.NewButton("Suggest region", f.suggestRegion)
	if !f.ctrl.SuggestEnabled() {
		f.suggest.Disable()
	}

	f.status = widget.NewLabel(fmt.Sprintf("%d subjects in %s", len(f.ctrl.Registry().Subjects()), f.ctrl.Registry().DataDir()))

	top := container.NewBorder(nil, nil, nil, loadBtn, f.url)
	meta := container.NewGridWithColumns(3, f.name, f.gender, f.ethnicity)
	actions := container.NewHBox(f.suggest, saveBtn)
	bottom := container.NewVBox(
		meta,
		container.NewBorder(nil, nil, nil, actions, f.status),
	)
	return container.NewBorder(top, bottom, nil, nil, f.edit)
}

func (f *form) load() {
	if !f.ctrl.Load(context.Background(), f.url.Text) {
		return
	}
	b := f.edit.Image().Bounds()
	f.status.SetText(fmt.Sprintf("Loaded %dx%d", b.Dx(), b.Dy()))
}

func (f *form) subjectCommitted(name string) {
	s, ok := f.ctrl.SubjectCommitted(name)
	if !ok {
		return
	}
	f.gender.SetSelected(s.Gender.Label())
	f.ethnicity.SetSelected(s.Ethnicity.Label())
	if s.Dir == "" {
		f.status.SetText(fmt.Sprintf("New subject %q", s.Name))
		return
	}
	f.status.SetText(fmt.Sprintf("%s: directory %s, %d images", s.Name, s.Dir, s.MaxSeq))
}

func (f *form) save() {
	gender, _ := types.GenderFromLabel(f.gender.Selected)
	ethnicity, _ := types.EthnicityFromLabel(f.ethnicity.Selected)

	res, err := f.ctrl.Save(controller.SaveRequest{
		Name:      f.name.Text,
		Gender:    gender,
		Ethnicity: ethnicity,
	})
	if err != nil {
		f.status.SetText(err.Error())
		if !errors.Is(err, controller.ErrNoImage) && !errors.Is(err, controller.ErrNoSubject) {
			log.WithError(err).Error("save failed")
			dialog.ShowError(err, f.window)
		}
		return
	}

	f.url.SetText("")
	f.name.SetText("")
	f.resetSelectors()
	f.status.SetText(fmt.Sprintf("Saved %s for %s", res.Record.Path, res.Subject.Name))
}

func (f *form) suggestRegion() {
	r, err := f.ctrl.Suggest(context.Background())
	switch {
	case errors.Is(err, controller.ErrNoSuggestion):
		f.status.SetText("No subject found")
	case err != nil:
		log.WithError(err).Warn("region suggestion failed")
		f.status.SetText(err.Error())
	default:
		f.status.SetText(fmt.Sprintf("Suggested %dx%d at %d,%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	}
}

func (f *form) resetSelectors() {
	f.gender.SetSelected(types.DefaultGender().Label())
	f.ethnicity.SetSelected(types.DefaultEthnicity().Label())
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dermscope/dermscope/photoset/application"
	"github.com/dermscope/dermscope/photoset/domain"
	"github.com/dermscope/dermscope/photoset/persistence"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

const timeLayout = "2006-01-02 15:04"

func main() {
	var (
		dir          = flag.String("dir", "", "photo set directory to open")
		allowEmpty   = flag.Bool("allow-empty", false, "open directories holding no photos")
		useEXIF      = flag.Bool("exif", false, "prefer EXIF capture dates over file times")
		mergeMetrics = flag.Bool("merge-metrics", false, "apply mole metrics stored in the info file")

		patientName    = flag.String("name", "", "set the patient's first name")
		patientSurname = flag.String("surname", "", "set the patient's surname")
		visitNotes     = flag.String("visit-notes", "", "set the visit notes")
		visitTime      = flag.String("visit-time", "", "set the visit time ("+timeLayout+")")

		photoID    = flag.Int("photo", -1, "photo id the photo flags apply to")
		photoNotes = flag.String("photo-notes", "", "set the selected photo's notes")
		photoTime  = flag.String("photo-time", "", "set the selected photo's time ("+timeLayout+")")
		centerX    = flag.Float64("center-x", 0, "mole center x offset in mm")
		centerY    = flag.Float64("center-y", 0, "mole center y offset in mm")
		diameter   = flag.Float64("diameter", 0, "mole diameter in mm")

		saveAs  = flag.String("save-as", "", "save the set into a new directory")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: timeLayout})

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	provided := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { provided[f.Name] = true })

	repo := persistence.NewDirectoryRepository(persistence.Options{
		AllowEmpty:       *allowEmpty,
		UseEXIFTime:      *useEXIF,
		MergeMoleMetrics: *mergeMetrics,
		Progress:         newProgress(),
	})
	service := application.NewSetService(repo)

	set, err := service.Load(*dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open photo set")
	}

	changed := false

	if provided["name"] || provided["surname"] {
		name, surname := set.Info.Name, set.Info.Surname
		if provided["name"] {
			name = *patientName
		}
		if provided["surname"] {
			surname = *patientSurname
		}
		service.SetPatient(set, name, surname)
		changed = true
	}
	if provided["visit-notes"] {
		service.SetVisitNotes(set, *visitNotes)
		changed = true
	}
	if provided["visit-time"] {
		t, err := time.ParseInLocation(timeLayout, *visitTime, time.Local)
		if err != nil {
			log.Fatal().Err(err).Msg("Bad -visit-time")
		}
		service.SetVisitTime(set, t)
		changed = true
	}

	photoFlags := provided["photo-notes"] || provided["photo-time"] ||
		provided["center-x"] || provided["center-y"] || provided["diameter"]
	if photoFlags {
		if *photoID < 0 {
			log.Fatal().Msg("Photo edits need -photo")
		}
		id := domain.PhotoID(*photoID)

		if provided["photo-notes"] {
			if err := service.SetPhotoNotes(set, id, *photoNotes); err != nil {
				log.Fatal().Err(err).Msg("Failed to set photo notes")
			}
			changed = true
		}
		if provided["photo-time"] {
			t, err := time.ParseInLocation(timeLayout, *photoTime, time.Local)
			if err != nil {
				log.Fatal().Err(err).Msg("Bad -photo-time")
			}
			if err := service.SetPhotoTime(set, id, t); err != nil {
				log.Fatal().Err(err).Msg("Failed to set photo time")
			}
			changed = true
		}
		if provided["center-x"] || provided["center-y"] || provided["diameter"] {
			photo, ok := set.FindPhoto(id)
			if !ok {
				log.Fatal().Int("photo", *photoID).Msg("No such photo in the set")
			}
			metrics := photo.Info.MoleMetrics
			if provided["center-x"] {
				metrics.CenterX = *centerX
			}
			if provided["center-y"] {
				metrics.CenterY = *centerY
			}
			if provided["diameter"] {
				metrics.Diameter = *diameter
			}
			if err := service.SetMoleMetrics(set, id, metrics); err != nil {
				log.Fatal().Err(err).Msg("Failed to set mole metrics")
			}
			changed = true
		}
	}

	if *saveAs != "" {
		if err := os.MkdirAll(*saveAs, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", *saveAs).Msg("Failed to create directory")
		}
		if err := service.SaveAs(set, *saveAs); err != nil {
			log.Fatal().Err(err).Msg("Failed to save photo set")
		}
	} else if changed {
		if err := service.Save(set); err != nil {
			log.Fatal().Err(err).Msg("Failed to save photo set")
		}
	}

	printSet(os.Stdout, set)
}

// newProgress renders load progress on stderr. The bar is created on
// the first tick, once the total is known.
func newProgress() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "Loading photos")
		}
		bar.Set(done)
	}
}

func printSet(w io.Writer, set *domain.PhotoSet) {
	fmt.Fprintf(w, "Photo set: %s\n", set.Path)
	fmt.Fprintf(w, "Patient:   %s %s\n", set.Info.Name, set.Info.Surname)
	fmt.Fprintf(w, "Visit:     %s\n", set.Info.Time.Format(timeLayout))
	if set.Info.Notes != "" {
		fmt.Fprintf(w, "Notes:     %s\n", set.Info.Notes)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tTIME\tSIZE\tNOTES")
	for _, photo := range set.SortedPhotos() {
		size := "-"
		if d, ok := photo.Info.MoleMetrics.Size(); ok {
			size = fmt.Sprintf("%.1f mm", d)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			photo.ID,
			domain.PhotoFileName(photo.ID),
			photo.Info.Time.Format(timeLayout),
			size,
			photo.Info.Notes,
		)
	}
	tw.Flush()
}

package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/polidle/parl-scraper/internal/config"
	"github.com/polidle/parl-scraper/internal/dataset"
	"github.com/polidle/parl-scraper/internal/member"
)

type fakeFetcher struct {
	archive    *zip.Reader
	archiveErr error
	html       string
	htmlErr    error
	bodies     map[string][]byte
}

func (f *fakeFetcher) Bytes(_ context.Context, rawURL string, _ time.Duration) ([]byte, error) {
	if body, ok := f.bodies[rawURL]; ok {
		return body, nil
	}
	return nil, errors.New("source unavailable")
}

func (f *fakeFetcher) HTML(context.Context, string, time.Duration) (string, error) {
	if f.htmlErr != nil {
		return "", f.htmlErr
	}
	return f.html, nil
}

func (f *fakeFetcher) Archive(context.Context, string, time.Duration) (*zip.Reader, error) {
	if f.archiveErr != nil {
		return nil, f.archiveErr
	}
	return f.archive, nil
}

type fakePortraits struct {
	succeed bool
	calls   [][]string
}

func (f *fakePortraits) Fetch(_ context.Context, candidates []string, _ string) bool {
	f.calls = append(f.calls, candidates)
	return f.succeed
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	root := t.TempDir()
	cfg.Output.DataDir = filepath.Join(root, "data")
	cfg.Output.PhotosDir = filepath.Join(root, "photos")
	cfg.Photos.PauseMs = 0
	return cfg
}

func buildArchive(t *testing.T, entries map[string]string) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func TestRunSenatorsEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archiveErr: errors.New("archive down"),
		html:       `<a href="/senateur/dupont-jean-21071f.html">DUPONT&nbsp;Jean</a>`,
		bodies: map[string][]byte{
			cfg.Sources.SenatorData: []byte(`{"results":[{"Matricule":"21071f","Etat":"ACTIF","Groupe_politique":"Les Républicains"}]}`),
		},
	}
	portraits := &fakePortraits{succeed: true}

	p := New(cfg, fetcher, portraits, nil)
	require.NoError(t, p.Run(context.Background()))

	records, err := dataset.Read(filepath.Join(cfg.Output.DataDir, "senateurs.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "dupont-jean-21071f", records[0].ID)
	require.Equal(t, "LR", records[0].GroupCode)
	require.Equal(t, "Les Républicains", records[0].GroupName)
	require.Equal(t, "photos/senateurs/dupont-jean-21071f.jpg", records[0].Photo)

	// Only the senator chamber yielded records, so only its file exists.
	_, err = os.Stat(filepath.Join(cfg.Output.DataDir, "deputes.json"))
	require.True(t, os.IsNotExist(err))
}

func TestRunZeroRecordsIsHardStop(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archiveErr: errors.New("down"),
		htmlErr:    errors.New("down"),
	}
	portraits := &fakePortraits{succeed: true}

	p := New(cfg, fetcher, portraits, nil)
	err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrNoRecords)

	entries, err := os.ReadDir(cfg.Output.DataDir)
	require.NoError(t, err)
	require.Empty(t, entries, "no dataset written on hard stop")
	require.Empty(t, portraits.calls, "no downloads attempted")
}

func TestRunDeputiesFromArchive(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archive: buildArchive(t, map[string]string{
			"json/organe/PO1.json": `{"organe":{"uid":"PO1","codeType":"GP","libelleAbrege":"RN","libelle":"Rassemblement National"}}`,
			"json/acteur/PA1.json": `{"acteur":{
				"uid":{"#text":"PA1"},
				"etatCivil":{"ident":{"nom":"Dupont","prenom":"Jean"}},
				"mandats":{"mandat":[{"typeOrgane":"GP","legislature":"17","dateFin":null,"organes":{"organeRef":"PO1"}}]}
			}}`,
		}),
		htmlErr: errors.New("senat down"),
	}
	portraits := &fakePortraits{succeed: true}

	p := New(cfg, fetcher, portraits, nil)
	require.NoError(t, p.Run(context.Background()))

	records, err := dataset.Read(filepath.Join(cfg.Output.DataDir, "deputes.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "jean-dupont", records[0].ID)
	require.Equal(t, "RN", records[0].GroupCode)
	require.Equal(t, "photos/deputes/jean-dupont.jpg", records[0].Photo)

	require.Len(t, portraits.calls, 1)
	require.Len(t, portraits.calls[0], 1, "archive deputies carry one portrait candidate")
}

func TestRunDeputiesFallBackToAPI(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archiveErr: errors.New("archive down"),
		htmlErr:    errors.New("senat down"),
		bodies: map[string][]byte{
			cfg.Sources.DeputyAPI: []byte(`{"deputes":[{"depute":{
				"slug":"jean-dupont","nom":"Jean Dupont","nom_de_famille":"Dupont",
				"prenom":"Jean","groupe_sigle":"RN","id_an":"1234"
			}}]}`),
		},
	}
	portraits := &fakePortraits{succeed: true}

	p := New(cfg, fetcher, portraits, nil)
	require.NoError(t, p.Run(context.Background()))

	records, err := dataset.Read(filepath.Join(cfg.Output.DataDir, "deputes.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "jean-dupont", records[0].ID)

	require.Len(t, portraits.calls, 1)
	require.Len(t, portraits.calls[0], 2, "API deputies carry primary and legacy candidates")
}

func TestRunDropsRecordsWithoutPortrait(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archiveErr: errors.New("archive down"),
		html: `<a href="/senateur/dupont-jean-21071f.html">DUPONT Jean</a>
		       <a href="/senateur/martin-luc-30001b.html">MARTIN Luc</a>`,
	}
	portraits := &fakePortraits{succeed: false}

	p := New(cfg, fetcher, portraits, nil)
	require.NoError(t, p.Run(context.Background()))

	// Records parsed, portraits all failed: nothing persisted for the
	// chamber, but the run itself is not an error.
	_, err := os.Stat(filepath.Join(cfg.Output.DataDir, "senateurs.json"))
	require.True(t, os.IsNotExist(err))
	require.Len(t, portraits.calls, 2)
}

func TestRunRegistryUnavailableMeansNonAttached(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	fetcher := &fakeFetcher{
		archiveErr: errors.New("archive down"),
		html:       `<a href="/senateur/dupont-jean-21071f.html">DUPONT Jean</a>`,
	}
	portraits := &fakePortraits{succeed: true}

	p := New(cfg, fetcher, portraits, nil)
	require.NoError(t, p.Run(context.Background()))

	records, err := dataset.Read(filepath.Join(cfg.Output.DataDir, "senateurs.json"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, member.NonAttachedCode, records[0].GroupCode)
	require.Equal(t, member.NonAttachedSenatorName, records[0].GroupName)
}

package member

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Jean-Élie O'Brien":   "jean-elie-o-brien",
		"Ségolène ROYAL":      "segolene-royal",
		"  --Émile   Zola-- ": "emile-zola",
		"François Müller":     "francois-muller",
		"ÀÂÄÉÈÊËÎÏÔÖÙÛÜÇ":     "aaaeeeeiioouuuc",
		"N°12 bis":            "n12-bis",
	}
	for input, want := range cases {
		require.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestSlugifyProperties(t *testing.T) {
	t.Parallel()

	names := []string{
		"Jean Dupont",
		"Anne-Sophie de La Rochefoucauld",
		"Özlem Çelik",
		"Mbappé N'Diaye",
	}
	for _, name := range names {
		slug := Slugify(name)
		require.NotEmpty(t, slug)
		require.Equal(t, strings.ToLower(slug), slug, "slug must be lowercase")
		require.NotContains(t, slug, "--", "no consecutive separators")
		require.False(t, strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-"))
		for _, r := range slug {
			require.True(t, r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'),
				"unexpected rune %q in slug %q", r, slug)
		}
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Royal", TitleCase("ROYAL"))
	require.Equal(t, "Cohen-Séat", TitleCase("COHEN-SÉAT"))
	require.Equal(t, "De Legge", TitleCase("DE LEGGE"))
}

// TitleCase is called from parsers that may run side by side; it must not
// share caser state across goroutines.
func TestTitleCaseConcurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.Equal(t, "Cohen-Séat", TitleCase("COHEN-SÉAT"))
				require.Equal(t, "De Legge", TitleCase("DE LEGGE"))
			}
		}()
	}
	wg.Wait()
}

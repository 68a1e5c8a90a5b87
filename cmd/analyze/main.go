package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/analysis/contract"
)

// analyze runs the offline classification pass over one piece of text and
// prints the result. Useful for checking lexicon changes without a server,
// a database, or an inference endpoint.
func main() {
	title := flag.String("title", "", "entry title; when set, no title is suggested")
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
			os.Exit(1)
		}
		text = strings.TrimSpace(string(raw))
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze [-title t] <text, or text on stdin>")
		os.Exit(2)
	}

	local := analysis.ClassifyLocal(text)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	result := contract.Result{
		PrimaryMood:      local.PrimaryMood,
		Confidence:       local.Confidence,
		Energy:           local.Energy,
		Emotions:         local.Emotions,
		BusinessCategory: local.Category,
		Insights:         analysis.SynthesizeInsights(local.PrimaryMood, local.Category, text, local.Confidence, rng),
		AnalysisSource:   contract.SourceLocal,
	}
	if *title == "" {
		result.SuggestedTitle = analysis.GenerateTitle(text, local.Category, local.PrimaryMood, local.Energy)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

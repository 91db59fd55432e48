package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// pageConfig is the runtime configuration the landing page fetches before
// wiring its dialogs. Generated at deploy time so the static page carries no
// secrets and no build step.
type pageConfig struct {
	APIBaseURL       string `json:"api_base_url"`
	LandingSource    string `json:"landing_source"`
	PostSubmitLink   string `json:"post_submit_link,omitempty"`
	PostSubmitTarget string `json:"post_submit_target,omitempty"`
	PrivacyPolicyURL string `json:"privacy_policy_url,omitempty"`
	TermsOfUseURL    string `json:"terms_of_use_url,omitempty"`
}

func main() {
	// A missing .env is fine; deployment may inject real env vars instead
	_ = godotenv.Load()

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		// Historical misspelling still present in some deploy environments
		apiURL = os.Getenv("API_UR")
	}
	if apiURL == "" {
		fmt.Fprintln(os.Stderr, "API_URL is not set")
		os.Exit(1)
	}

	landingSource := os.Getenv("LANDING_SOURCE")
	if landingSource == "" {
		landingSource = "check-lavagem-segura"
	}

	cfg := pageConfig{
		APIBaseURL:       apiURL,
		LandingSource:    landingSource,
		PostSubmitLink:   os.Getenv("POST_SUBMIT_LINK"),
		PostSubmitTarget: os.Getenv("POST_SUBMIT_TARGET"),
		PrivacyPolicyURL: os.Getenv("PRIVACY_POLICY_URL"),
		TermsOfUseURL:    os.Getenv("TERMS_OF_USE_URL"),
	}

	outPath := os.Getenv("PAGE_CONFIG_PATH")
	if outPath == "" {
		outPath = "web/config.json"
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode page config: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", outPath)
}

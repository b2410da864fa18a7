package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"

	"mlb-lineup-bot/internal/logger"
	"mlb-lineup-bot/internal/store"
	"mlb-lineup-bot/internal/types"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultTweetURL  = "https://api.twitter.com/2/tweets"
)

// TwitterCredentials is the OAuth1 user-context credential set.
type TwitterCredentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// TwitterCredentialsFromEnv reads the four credential variables and
// reports the first one missing.
func TwitterCredentialsFromEnv() (TwitterCredentials, error) {
	creds := TwitterCredentials{
		ConsumerKey:    os.Getenv("CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("CONSUMER_SECRET"),
		AccessToken:    os.Getenv("ACCESS_TOKEN"),
		AccessSecret:   os.Getenv("ACCESS_TOKEN_SECRET"),
	}
	for name, v := range map[string]string{
		"CONSUMER_KEY":        creds.ConsumerKey,
		"CONSUMER_SECRET":     creds.ConsumerSecret,
		"ACCESS_TOKEN":        creds.AccessToken,
		"ACCESS_TOKEN_SECRET": creds.AccessSecret,
	} {
		if v == "" {
			return TwitterCredentials{}, fmt.Errorf("missing environment variable: %s", name)
		}
	}
	return creds, nil
}

// Twitter posts cards as media tweets: v1.1 media upload for the
// artifact, then a v2 tweet referencing the media ID.
type Twitter struct {
	cfg       *store.Config
	http      *http.Client
	uploadURL string
	tweetURL  string
}

func NewTwitter(cfg *store.Config, creds TwitterCredentials) *Twitter {
	oauthCfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	client := oauthCfg.Client(oauth1.NoContext, token)
	client.Timeout = 60 * time.Second
	return &Twitter{
		cfg:       cfg,
		http:      client,
		uploadURL: defaultUploadURL,
		tweetURL:  defaultTweetURL,
	}
}

func (t *Twitter) Publish(ctx context.Context, card *types.GameCard, artifactPath string) error {
	mediaID, err := t.uploadMedia(ctx, artifactPath)
	if err != nil {
		return fmt.Errorf("media upload: %w", err)
	}

	text := StatusText(t.cfg, card)
	if err := t.tweet(ctx, text, mediaID); err != nil {
		return fmt.Errorf("tweet: %w", err)
	}

	logger.Published(ctx, card.GameID, card.AwayTeam, card.HomeTeam, artifactPath, "provider", "twitter")
	return nil
}

func (t *Twitter) uploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload returned %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if parsed.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media_id_string: %s", string(raw))
	}
	return parsed.MediaIDString, nil
}

func (t *Twitter) tweet(ctx context.Context, text, mediaID string) error {
	payload := map[string]any{
		"text": text,
		"media": map[string]any{
			"media_ids": []string{mediaID},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tweetURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tweet returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

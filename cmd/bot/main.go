package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"
)

// botUser is one synthetic account the bot drives through the API
type botUser struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type bot struct {
	client  *resty.Client
	apiURL  string
	users   []*botUser
	postIDs []string
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api/v1", "base URL of the API")
	userCount := flag.Int("users", 10, "number of synthetic users to sign up")
	maxPosts := flag.Int("max-posts", 5, "maximum number of posts created per user")
	maxLikes := flag.Int("max-likes", 20, "maximum number of like/unlike calls per user")
	storagePath := flag.String("storage", "bot_users.json", "path of the JSON file holding user credentials")
	flag.Parse()

	b := &bot{
		client: resty.New(),
		apiURL: *apiURL,
	}

	if err := b.loadUsers(*storagePath); err != nil {
		log.Printf("No usable user storage at %s, signing up fresh users: %v", *storagePath, err)
		b.signupUsers(*userCount)
	}

	b.obtainTokens()

	if err := b.saveUsers(*storagePath); err != nil {
		log.Fatalf("Failed to save users to %s: %v", *storagePath, err)
	}

	b.createPosts(*maxPosts)
	b.reactRandomly(*maxLikes)

	log.Println("Bot run complete.")
}

// signupUsers generates and signs up synthetic users
func (b *bot) signupUsers(count int) {
	for i := 0; i < count; i++ {
		user := &botUser{
			Username: fmt.Sprintf("%s-%s-%04d", adjectives[rand.Intn(len(adjectives))], nouns[rand.Intn(len(nouns))], rand.Intn(10000)),
			Password: fmt.Sprintf("pw-%016x", rand.Uint64()),
		}
		user.Email = user.Username + "@example.com"

		resp, err := b.client.R().
			SetBody(map[string]string{
				"username": user.Username,
				"email":    user.Email,
				"password": user.Password,
			}).
			Post(b.apiURL + "/users/register")
		if err != nil {
			log.Printf("Signup request failed for %s: %v", user.Username, err)
			continue
		}
		if resp.StatusCode() != http.StatusCreated {
			log.Printf("Signup rejected for %s: %s", user.Username, resp.Status())
			continue
		}

		b.users = append(b.users, user)
	}
	log.Printf("Signed up %d synthetic users.", len(b.users))
}

// obtainTokens fetches a fresh access/refresh token pair for every user
func (b *bot) obtainTokens() {
	for _, user := range b.users {
		var tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		}
		resp, err := b.client.R().
			SetBody(map[string]string{"username": user.Username, "password": user.Password}).
			SetResult(&tokens).
			Post(b.apiURL + "/token/obtain")
		if err != nil {
			log.Printf("Token request failed for %s: %v", user.Username, err)
			continue
		}
		if resp.StatusCode() != http.StatusOK {
			log.Printf("Token rejected for %s: %s", user.Username, resp.Status())
			continue
		}
		user.AccessToken = tokens.Access
		user.RefreshToken = tokens.Refresh
	}
	log.Printf("Retrieved tokens for %d users.", len(b.users))
}

// refreshToken exchanges a user's refresh token for a new access token
func (b *bot) refreshToken(user *botUser) bool {
	var tokens struct {
		Access string `json:"access"`
	}
	resp, err := b.client.R().
		SetBody(map[string]string{"refresh": user.RefreshToken}).
		SetResult(&tokens).
		Post(b.apiURL + "/token/refresh")
	if err != nil || resp.StatusCode() != http.StatusOK {
		return false
	}
	user.AccessToken = tokens.Access
	return true
}

// createPosts creates a random number of posts per user, up to maxPosts
func (b *bot) createPosts(maxPosts int) {
	total := 0
	for _, user := range b.users {
		for i := 0; i < rand.Intn(maxPosts+1); i++ {
			var post struct {
				ID string `json:"id"`
			}
			resp, err := b.authRequest(user).
				SetBody(map[string]string{
					"title":   fmt.Sprintf("%s thoughts #%d", user.Username, i+1),
					"content": sentences[rand.Intn(len(sentences))],
				}).
				SetResult(&post).
				Post(b.apiURL + "/posts")
			if err != nil {
				log.Printf("Post creation failed for %s: %v", user.Username, err)
				continue
			}
			if resp.StatusCode() != http.StatusCreated {
				log.Printf("Post creation rejected for %s: %s", user.Username, resp.Status())
				continue
			}
			b.postIDs = append(b.postIDs, post.ID)
			total++
		}
	}
	log.Printf("Created %d posts.", total)
}

// reactRandomly issues random like and unlike calls against random posts
func (b *bot) reactRandomly(maxLikes int) {
	if len(b.postIDs) == 0 {
		log.Println("No posts to react to.")
		return
	}

	likes, unlikes := 0, 0
	for _, user := range b.users {
		for i := 0; i < rand.Intn(maxLikes+1); i++ {
			postID := b.postIDs[rand.Intn(len(b.postIDs))]

			action := "like"
			if rand.Intn(4) == 0 { // unlike a quarter of the time
				action = "unlike"
			}

			url := fmt.Sprintf("%s/post/%s/%s", b.apiURL, postID, action)
			resp, err := b.authRequest(user).Post(url)
			if err != nil {
				log.Printf("%s failed for %s: %v", action, user.Username, err)
				continue
			}
			if resp.StatusCode() == http.StatusUnauthorized && b.refreshToken(user) {
				resp, err = b.authRequest(user).Post(url)
				if err != nil {
					continue
				}
			}
			if resp.StatusCode() != http.StatusOK {
				log.Printf("%s rejected for %s: %s", action, user.Username, resp.Status())
				continue
			}
			if action == "like" {
				likes++
			} else {
				unlikes++
			}
		}
	}
	log.Printf("Issued %d likes and %d unlikes.", likes, unlikes)
}

// authRequest starts a request authenticated as the given user
func (b *bot) authRequest(user *botUser) *resty.Request {
	return b.client.R().SetAuthToken(user.AccessToken)
}

// loadUsers restores users from a previous run's storage file
func (b *bot) loadUsers(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &b.users); err != nil {
		return err
	}
	if len(b.users) == 0 {
		return fmt.Errorf("storage file %s holds no users", path)
	}
	log.Printf("Loaded %d users from %s.", len(b.users), path)
	return nil
}

// saveUsers persists user credentials and tokens between runs
func (b *bot) saveUsers(path string) error {
	data, err := json.MarshalIndent(b.users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

var adjectives = []string{"brisk", "quiet", "golden", "rapid", "mellow", "crimson", "sly", "vivid"}

var nouns = []string{"otter", "falcon", "willow", "comet", "harbor", "ember", "ridge", "lantern"}

var sentences = []string{
	"Spent the morning refactoring and the afternoon regretting it.",
	"Coffee count today: more than yesterday, fewer than tomorrow.",
	"Finally got the deployment pipeline green on the first try.",
	"Reading about database indexes instead of sleeping again.",
	"The best bug reports are the ones with reproduction steps.",
	"Walked the long way home and drafted this post in my head.",
}

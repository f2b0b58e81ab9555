package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/tdempsey/RainbowRead250813/handlers"
	"github.com/tdempsey/RainbowRead250813/middleware"
	"github.com/tdempsey/RainbowRead250813/services"
	"github.com/tdempsey/RainbowRead250813/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize storage
	store := storage.NewMemStorage()

	// Initialize services
	rssService := services.NewRssService(store)
	newsApiService := services.NewNewsApiService(store, os.Getenv("NEWS_API_KEY"))
	opmlService := services.NewOpmlService(store)

	// Initialize handlers
	articleHandlers := handlers.NewArticleHandlers(store)
	sourceHandlers := handlers.NewSourceHandlers(store, rssService, opmlService)
	categoryHandlers := handlers.NewCategoryHandlers(store)
	bookmarkHandlers := handlers.NewBookmarkHandlers(store)
	sessionMiddleware := middleware.NewSessionMiddleware()

	// Setup routes
	r := mux.NewRouter()

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "ok", "message": "RainbowRead is running", "timestamp": "%s"}`, time.Now().Format(time.RFC3339))
	}).Methods("GET")

	// Stats
	api.HandleFunc("/stats", articleHandlers.GetStats).Methods("GET")

	// Article routes
	api.HandleFunc("/articles", articleHandlers.GetArticles).Methods("GET")
	api.HandleFunc("/articles/{id}", articleHandlers.GetArticle).Methods("GET")
	api.HandleFunc("/articles/{id}", articleHandlers.UpdateArticle).Methods("PATCH")
	api.HandleFunc("/articles/{id}", articleHandlers.DeleteArticle).Methods("DELETE")
	api.HandleFunc("/articles/{id}/like", articleHandlers.LikeArticle).Methods("POST")
	api.HandleFunc("/articles/{id}/promote", articleHandlers.PromoteArticle).Methods("POST")
	api.HandleFunc("/articles/{id}/promote", articleHandlers.UnpromoteArticle).Methods("DELETE")
	api.HandleFunc("/articles/{id}/hide", articleHandlers.HideArticle).Methods("POST")
	api.HandleFunc("/articles/{id}/hide", articleHandlers.UnhideArticle).Methods("DELETE")
	api.HandleFunc("/admin/articles", articleHandlers.GetAllArticles).Methods("GET")

	// Search helpers
	api.HandleFunc("/trending-tags", articleHandlers.GetTrendingTags).Methods("GET")
	api.HandleFunc("/search/suggestions", articleHandlers.GetSuggestions).Methods("GET")

	// RSS source routes
	api.HandleFunc("/sources", sourceHandlers.GetSources).Methods("GET")
	api.HandleFunc("/sources", sourceHandlers.CreateSource).Methods("POST")
	api.HandleFunc("/sources/import", sourceHandlers.ImportOPML).Methods("POST")
	api.HandleFunc("/sources/{id}", sourceHandlers.UpdateSource).Methods("PATCH")
	api.HandleFunc("/sources/{id}", sourceHandlers.DeleteSource).Methods("DELETE")
	api.HandleFunc("/sources/{id}/refresh", sourceHandlers.RefreshSource).Methods("POST")
	api.HandleFunc("/refresh", sourceHandlers.RefreshAll).Methods("POST")

	// Category routes
	api.HandleFunc("/categories", categoryHandlers.GetCategories).Methods("GET")
	api.HandleFunc("/categories", categoryHandlers.CreateCategory).Methods("POST")
	api.HandleFunc("/categories/reorder", categoryHandlers.ReorderCategories).Methods("POST")
	api.HandleFunc("/categories/{id}", categoryHandlers.UpdateCategory).Methods("PATCH")
	api.HandleFunc("/categories/{id}", categoryHandlers.DeleteCategory).Methods("DELETE")

	// Bookmark routes run behind the session middleware
	api.Handle("/bookmarks", sessionMiddleware.WithSession(http.HandlerFunc(bookmarkHandlers.GetBookmarks))).Methods("GET")
	api.Handle("/bookmarks", sessionMiddleware.WithSession(http.HandlerFunc(bookmarkHandlers.CreateBookmark))).Methods("POST")
	api.Handle("/bookmarks/{articleId}", sessionMiddleware.WithSession(http.HandlerFunc(bookmarkHandlers.DeleteBookmark))).Methods("DELETE")

	// Static files and frontend
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	// Serve frontend for all other routes
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Serve API 404 for API routes
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		// Serve index.html for all other routes (SPA routing)
		http.ServeFile(w, r, "static/index.html")
	})

	// Setup background jobs
	setupCronJobs(rssService, newsApiService)

	fmt.Printf("RainbowRead server starting on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func setupCronJobs(rssService *services.RssService, newsApiService *services.NewsApiService) {
	c := cron.New()

	// Refresh RSS sources every 30 minutes
	c.AddFunc("*/30 * * * *", func() {
		log.Println("Scheduled RSS fetch starting...")
		rssService.FetchAllSources()
	})

	// Fetch NewsAPI every 2 hours (to respect rate limits)
	c.AddFunc("0 */2 * * *", func() {
		log.Println("Scheduled NewsAPI fetch starting...")
		newsApiService.FetchAndSave()
	})

	c.Start()

	// Initial fetch shortly after startup
	go func() {
		time.Sleep(5 * time.Second)
		log.Println("Initial content fetch starting...")
		rssService.FetchAllSources()
		newsApiService.FetchAndSave()
	}()

	log.Println("Background jobs scheduled")
}

//nolint:errcheck,forbidigo,gosec // test utility allows simpler error handling and direct output
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

// Serves vendor API fixtures so the notifier can be exercised locally: point
// AMAZON_BASE_URL and CROMA_BASE_URL at this server.
func main() {
	port := flag.Int("port", 9090, "Port to listen on")
	amazonPath := flag.String("amazon", "", "Path to a PA-API getitems response JSON file")
	cromaPath := flag.String("croma", "", "Path to a croma product details response JSON file")
	flag.Parse()

	if *amazonPath == "" && *cromaPath == "" {
		fmt.Println("Usage: testserver [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *amazonPath != "" {
		if _, err := os.Stat(*amazonPath); os.IsNotExist(err) {
			log.Fatalf("Amazon fixture does not exist: %s", *amazonPath)
		}
		http.HandleFunc("/paapi5/getitems", func(w http.ResponseWriter, _ *http.Request) {
			serveJSONFile(w, *amazonPath)
		})
	}

	if *cromaPath != "" {
		if _, err := os.Stat(*cromaPath); os.IsNotExist(err) {
			log.Fatalf("Croma fixture does not exist: %s", *cromaPath)
		}
		http.HandleFunc("/productdetails/v1/", func(w http.ResponseWriter, _ *http.Request) {
			serveJSONFile(w, *cromaPath)
		})
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Test server listening on %s", addr)
	if *amazonPath != "" {
		log.Printf("Amazon fixture: %s -> http://localhost%s/paapi5/getitems", *amazonPath, addr)
	}
	if *cromaPath != "" {
		log.Printf("Croma fixture: %s -> http://localhost%s/productdetails/v1/pincode/<pincode>/sku/<sku>", *cromaPath, addr)
	}
	log.Println("Files are read on each request, so you can edit them while the server is running.")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func serveJSONFile(w http.ResponseWriter, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read file: %v", err), http.StatusInternalServerError)
		log.Printf("Error reading %s: %v", path, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(content)
	log.Printf("Served %s (%d bytes)", path, len(content))
}

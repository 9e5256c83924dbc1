// Package animatch embeds the anime recommender in a Go program without the
// HTTP API.
//
// New fetches the top-ranked catalog from Jikan, fits the TF-IDF model and
// keeps it in memory. Queries then run locally; only titles missing from the
// corpus and live-only categories reach the provider.
//
//	client, err := animatch.New(ctx,
//	    animatch.WithMaxPages(4),
//	    animatch.WithValkey("localhost:6379", ""), // optional lookup cache
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	rec, err := client.Recommend(ctx, "Cowboy Bebop")
//	for _, m := range rec.Matches {
//	    fmt.Printf("%.3f %s\n", m.Similarity, m.Anime.Title)
//	}
package animatch

package main

import (
	"chat-mock/domain"
	"chat-mock/errors"
	"chat-mock/internal"
	"chat-mock/runtime"
	"chat-mock/seed"
	"chat-mock/ui"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

// viewer prints the chat list a given seed produces, in listing order,
// without starting the shell or any worker.
func main() {
	query := flag.String("query", "", "filter chats by name")
	open := flag.String("open", "", "also print the conversation of this chat id")
	flag.Parse()

	if err := run(*query, domain.ChatID(*open)); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(query string, open domain.ChatID) error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	clock := runtime.SystemClock{}
	localUser := seed.LocalUser()
	seedValue := config.SeedValue(clock.Now())
	chats := seed.NewGenerator(rand.New(rand.NewSource(seedValue)), clock.Now()).Chats(config.ExtraChats)

	ordered := domain.DeriveOrderedView(domain.FilterChats(chats, query, localUser.ID))
	presenter := ui.NewPresenter(os.Stdout, localUser, clock, false)
	presenter.RenderChatList(ordered, open)
	fmt.Printf("Seed %d: %d chats\n", seedValue, len(ordered))

	if open == "" {
		return nil
	}
	for _, c := range chats {
		if c.ID == open {
			presenter.RenderChat(c)
			return nil
		}
	}
	return fmt.Errorf("open %q: %w", open, errors.ErrChatNotFound)
}

package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory-ops/internal/app"
)

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the assistant.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Inventory Ops")
	fmt.Println("Describe an inventory operation in plain language, or use /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "products":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(result)

		case "product":
			if len(args) < 1 {
				fmt.Println("Usage: /product <sku>")
				return nil
			}
			result, err := svc.GetProduct(ctx, args[0])
			if err != nil {
				return err
			}
			printProductDetail(&result.Product)

		case "sources":
			if len(args) < 1 {
				fmt.Println("Usage: /sources <sku>")
				return nil
			}
			result, err := svc.GetStockSources(ctx, args[0])
			if err != nil {
				return err
			}
			printSources(result)

		case "assign":
			if len(args) < 1 {
				fmt.Println("Usage: /assign <sku>")
				return nil
			}
			handleAssign(ctx, reader, svc, args[0])

		case "stock":
			// Usage: /stock <sku> <stock> [committed]
			if len(args) < 2 {
				fmt.Println("Usage: /stock <sku> <stock> [committed]")
				return nil
			}
			stock, err := strconv.Atoi(args[1])
			if err != nil || stock < 0 {
				fmt.Printf("Invalid stock count: %s\n", args[1])
				return nil
			}
			committed := 0
			if len(args) >= 3 {
				committed, err = strconv.Atoi(args[2])
				if err != nil || committed < 0 {
					fmt.Printf("Invalid committed count: %s\n", args[2])
					return nil
				}
			}
			result, err := svc.SetStockLevels(ctx, args[0], stock, committed)
			if err != nil {
				return err
			}
			fmt.Printf("Stock updated. Available: %d\n", result.Product.Available())
			printProductDetail(&result.Product)

		case "tree", "locations":
			result, err := svc.GetLocationTree(ctx)
			if err != nil {
				return err
			}
			printTree(result)

		case "new-warehouse":
			handleNewWarehouse(ctx, reader, svc)

		case "new-location":
			// Usage: /new-location <parent-id> <kind> <name...>
			if len(args) < 3 {
				fmt.Println("Usage: /new-location <parent-id> <zone|rack|pallet|box> <name>")
				return nil
			}
			result, err := svc.CreateLocation(ctx, app.CreateLocationRequest{
				ParentID: args[0],
				Kind:     strings.ToLower(args[1]),
				Name:     strings.Join(args[2:], " "),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created: %s  (id %s)\n", result.Path, result.ID)

		case "rename":
			if len(args) < 2 {
				fmt.Println("Usage: /rename <location-id> <new name>")
				return nil
			}
			if err := svc.RenameLocation(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Println("Renamed.")

		case "delete":
			if len(args) < 1 {
				fmt.Println("Usage: /delete <location-id>")
				return nil
			}
			fmt.Print("This deletes the location and EVERYTHING under it. Proceed? (y/n): ")
			choice, _ := reader.ReadString('\n')
			if c := strings.TrimSpace(strings.ToLower(choice)); c != "y" && c != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := svc.DeleteLocation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted.")

		case "link":
			if len(args) < 1 {
				fmt.Println("Usage: /link <sku>")
				return nil
			}
			handleLinkListing(ctx, reader, svc, args[0])

		case "pause":
			if len(args) < 2 {
				fmt.Println("Usage: /pause <sku> <listing-id>")
				return nil
			}
			result, err := svc.PauseListing(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("Listing paused.")
			printProductDetail(&result.Product)

		case "activate":
			if len(args) < 2 {
				fmt.Println("Usage: /activate <sku> <listing-id>")
				return nil
			}
			result, err := svc.ActivateListing(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("Listing activated.")
			printProductDetail(&result.Product)

		case "pause-rule":
			handleBulkRule(ctx, reader, svc, true)

		case "visibility-rule":
			handleBulkRule(ctx, reader, svc, false)

		case "categories":
			cats, err := svc.ListCategories(ctx)
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				fmt.Println("No categories defined.")
				return nil
			}
			for _, c := range cats {
				fmt.Printf("  - %s\n", c)
			}

		case "add-category":
			if len(args) < 1 {
				fmt.Println("Usage: /add-category <name>")
				return nil
			}
			if err := svc.AddCategory(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("Category added.")

		case "rm-category":
			if len(args) < 1 {
				fmt.Println("Usage: /rm-category <name>")
				return nil
			}
			if err := svc.RemoveCategory(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("Category removed.")

		case "valuation":
			report, err := svc.GetValuationReport(ctx)
			if err != nil {
				return err
			}
			printValuation(report)

		case "low-stock":
			report, err := svc.GetLowStockReport(ctx)
			if err != nil {
				return err
			}
			printLowStock(report)

		case "save":
			if err := svc.SaveState(ctx); err != nil {
				return err
			}
			fmt.Println("State saved.")

		case "load":
			if err := svc.LoadState(ctx); err != nil {
				return err
			}
			fmt.Println("State loaded.")

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Slash prefix → deterministic command dispatcher, no assistant invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					break
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		// No slash prefix → route to the assistant.
		fmt.Println("[AI] Processing...")
		accumulatedInput := input

		rounds := 0
		for {
			rounds++
			if rounds > 3 {
				fmt.Println("Could not produce a command. Try a slash command instead — type /help.")
				break
			}

			result, err := svc.InterpretCommand(ctx, accumulatedInput)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				break
			}

			if result.IsClarification {
				fmt.Printf("\n[AI]: %s\n", result.ClarificationMessage)
				fmt.Print("> ")
				userFollowUp, _ := reader.ReadString('\n')
				userFollowUp = strings.TrimSpace(userFollowUp)

				// Slash command during clarification — cancel the assistant flow and execute it.
				if strings.HasPrefix(userFollowUp, "/") {
					fmt.Println("(AI session cancelled)")
					if dispErr := dispatchSlash(userFollowUp); dispErr != nil {
						if dispErr == errExit {
							fmt.Println("Goodbye!")
							return
						}
						fmt.Printf("Error: %v\n", dispErr)
					}
					break
				}

				if userFollowUp == "" || strings.ToLower(userFollowUp) == "cancel" {
					fmt.Println("Cancelled.")
					break
				}
				accumulatedInput = fmt.Sprintf("Original request: %s\nClarification requested: %s\nUser response: %s",
					accumulatedInput, result.ClarificationMessage, userFollowUp)
				fmt.Println("[AI] Thinking...")
				continue
			}

			printCommand(result)

			if result.Confidence < 0.6 {
				fmt.Println("\nWARNING: Low confidence proposal.")
			}

			fmt.Print("\nExecute this command? (y/n): ")
			choice, _ := reader.ReadString('\n')
			choice = strings.TrimSpace(strings.ToLower(choice))

			if choice == "y" || choice == "yes" {
				msg, err := svc.ExecuteCommand(ctx, *result.Command)
				if err != nil {
					fmt.Printf("Execution FAILED: %v\n", err)
				} else {
					fmt.Println(msg)
				}
			} else {
				fmt.Println("Command cancelled.")
			}
			break
		}
	}
}

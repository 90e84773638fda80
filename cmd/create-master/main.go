package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"tabelionato_app_go/config"
	"tabelionato_app_go/db"
	"tabelionato_app_go/models"
	"tabelionato_app_go/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// create-master bootstraps the first Master account from the terminal,
// the same way the /setup page does.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()

	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Criar usuário Master ===")
	fmt.Println()

	input := services.UserInput{
		Username:  prompt(reader, "Usuário: "),
		FirstName: prompt(reader, "Nome: "),
		LastName:  prompt(reader, "Sobrenome: "),
		Email:     strings.ToLower(prompt(reader, "E-mail (opcional): ")),
	}

	input.Password = readPassword("Senha: ")
	input.PasswordConfirm = readPassword("Confirme a senha: ")

	user, errs, err := services.SetupMaster(db.DB, input)
	if errors.Is(err, services.ErrSetupDone) {
		log.Fatal().Msg("a user already exists; create further accounts from the web interface")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create master")
	}
	if errs.Any() {
		fields := make([]string, 0, len(errs))
		for f := range errs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f, errs[f])
		}
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✓ Usuário Master criado")
	fmt.Printf("  ID: %s\n", user.ID)
	fmt.Printf("  Usuário: %s\n", user.Username)
	fmt.Println()
	fmt.Printf("Acesse %s/login para configurar o tabelionato.\n", strings.TrimRight(cfg.AppURL, "/"))
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readPassword(label string) string {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read password")
	}
	return string(b)
}

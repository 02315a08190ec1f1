package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"tradedesk/src/controller"
	"tradedesk/src/database"
	"tradedesk/src/repository"
	"tradedesk/src/security"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "Tradedesk CMD"
	app.Usage = "The Tradedesk command line interface"

	app.Commands = []cli.Command{
		syncCMD,
		probeCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	syncCMD = cli.Command{
		Name:      "sync",
		Usage:     "run a trade history sync for one user",
		Action:    syncAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.UintFlag{Name: "user", Usage: "user id to sync", Required: true},
			cli.UintFlag{Name: "credential", Usage: "credential id (defaults to the user's newest active credential)"},
		},
		Description: `Fetch the recent order and trade history from the exchange and persist it locally`,
	}
	probeCMD = cli.Command{
		Name:      "probe",
		Usage:     "probe a credential's exchange permissions",
		Action:    probeAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.UintFlag{Name: "user", Usage: "owning user id", Required: true},
			cli.UintFlag{Name: "credential", Usage: "credential id to probe", Required: true},
		},
		Description: `Run the capability probe and persist the detected permissions`,
	}
)

func syncAction(c *cli.Context) error {
	logrus.Info("Starting trade history sync CMD")

	credentials, err := bootstrap()
	if err != nil {
		return err
	}

	userID := uint(c.Uint("user"))
	credentialID := uint(c.Uint("credential"))
	ctx := context.Background()

	if credentialID == 0 {
		credentialID, err = newestActiveCredential(ctx, userID)
		if err != nil {
			return err
		}
	}

	gateway, err := credentials.Gateway(ctx, credentialID, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to build exchange gateway")
		return err
	}

	pairs := repository.NewTradingPairRepository()
	syncer := controller.NewTradeHistorySyncer(
		controller.NewSymbolResolver(pairs),
		repository.NewRemoteOrderRepository(),
		repository.NewRemoteExecutionRepository(),
	)

	report, err := syncer.Sync(ctx, gateway, userID)
	if err != nil {
		logrus.WithError(err).Error("Sync failed")
		return err
	}

	return printJSON(report)
}

func probeAction(c *cli.Context) error {
	logrus.Info("Starting credential probe CMD")

	credentials, err := bootstrap()
	if err != nil {
		return err
	}

	result, err := credentials.Validate(context.Background(), uint(c.Uint("credential")), uint(c.Uint("user")))
	if err != nil {
		logrus.WithError(err).Error("Probe failed")
		return err
	}

	return printJSON(result)
}

func bootstrap() (*controller.CredentialService, error) {
	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	cipher, err := security.NewCipher(security.GetConfig())
	if err != nil {
		return nil, err
	}

	return controller.NewCredentialService(repository.NewCredentialRepository(), cipher, nil), nil
}

func newestActiveCredential(ctx context.Context, userID uint) (uint, error) {
	creds, err := repository.NewCredentialRepository().ListActive(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(creds) == 0 {
		return 0, fmt.Errorf("user %d has no active credential", userID)
	}
	return creds[0].ID, nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

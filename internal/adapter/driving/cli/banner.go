package cli

import (
	"fmt"
	"io"

	"github.com/diillson/gcp-flowlog-audit/pkg/console"
	"github.com/diillson/gcp-flowlog-audit/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(w io.Writer) {
	banner := `
   ___  ___  ___   ___  _                 _                _             _  _  _
  / __|/ __|| _ \ | __|| | ___ __ __ __  | |    ___  __ _ | |  _  _  __| |(_)| |_
 | (_ || (__ |  _/ | _| | |/ _ \\ V  V /  | |__ / _ \/ _' || | | || |/ _' || ||  _|
  \___| \___||_|   |_|  |_|\___/ \_/\_/   |____|\___/\__, ||_|  \_,_|\__,_||_| \__|
                                                     |___/
`
	fmt.Fprintln(w, console.BoldRed(banner))
	fmt.Fprintln(w, console.BrightCyan(fmt.Sprintf("GCP Flow Log Audit CLI (v%s)", version.FormatVersion())))
}

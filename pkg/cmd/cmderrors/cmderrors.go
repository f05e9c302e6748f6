package cmderrors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	breverrors "github.com/runpod/podssh/pkg/errors"
	"github.com/runpod/podssh/pkg/featureflag"
	"github.com/runpod/podssh/pkg/terminal"
)

// DisplayAndHandleError prints err for the user. Validation errors are the
// user's to fix and are not reported.
func DisplayAndHandleError(w io.Writer, err error) {
	if err == nil {
		return
	}
	t := terminal.New()
	prettyErr := ""
	var validationErr breverrors.ValidationError
	if errors.As(err, &validationErr) {
		prettyErr = t.Yellow("%s", validationErr.Error())
	} else {
		er := breverrors.GetDefaultErrorReporter()
		er.ReportMessage(err.Error())
		er.ReportError(err)
		prettyErr = t.Red("%s", errors.Cause(err).Error())
		var d interface{ Directive() string }
		if errors.As(err, &d) {
			prettyErr += "\n" + t.Yellow("%s", d.Directive())
		}
	}
	if featureflag.Debug() || featureflag.IsDev() {
		fmt.Fprintf(w, "%+v\n", err)
	} else {
		fmt.Fprintln(w, prettyErr)
	}
}

// TransformToValidationError turns cobra argument errors into validation
// errors so they print as usage problems.
func TransformToValidationError(pa cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		err := pa(cmd, args)
		if err != nil {
			return breverrors.NewValidationError(err.Error())
		}
		return nil
	}
}

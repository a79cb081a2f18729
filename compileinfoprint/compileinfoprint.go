// compileinfoprint is imported for the side effect of printing the build
// information to os.Stderr when a tool starts.
package compileinfoprint

import "github.com/carbocation/traqcal/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}

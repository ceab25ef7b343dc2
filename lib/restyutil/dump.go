package restyutil

import (
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// DumpExchanges writes every completed request/response pair of the client to output,
// named by a sequence number and the request path. Credentials are redacted.
// A nil output is a no-op.
func DumpExchanges(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&idcounter, 1)
		output.Write(fmt.Sprintf("%04d.txt", id), formatHttpMessage(res))
		return nil
	})
}

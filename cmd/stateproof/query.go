package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mapprotocol/stateproof/config"
	"github.com/mapprotocol/stateproof/internal/constant"
	exposegrpc "github.com/mapprotocol/stateproof/internal/expose/grpc"
	"github.com/mapprotocol/stateproof/internal/expose/handler"
	"github.com/mapprotocol/stateproof/internal/proof"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func query(ctx *cli.Context) error {
	err := startLogger(ctx)
	if err != nil {
		return err
	}

	enc, err := proof.ParseEncoding(ctx.String(config.EncodingFlag.Name))
	if err != nil {
		return err
	}
	req := proof.NewRequest(
		ctx.String(config.AddressFlag.Name),
		ctx.String(config.EndpointFlag.Name),
		ctx.Uint64(config.HeightFlag.Name),
		ctx.String(config.KeyFlag.Name),
	)

	var env *proof.Envelope
	if target := ctx.String(config.GrpcTargetFlag.Name); target != "" {
		env, err = fetchGRPC(ctx.Context, target, req)
	} else {
		env, err = fetchHTTP(ctx.Context, ctx.String(config.ServiceFlag.Name), req, enc)
	}
	if err != nil {
		return err
	}
	return printEnvelope(ctx.App.Writer, env)
}

func fetchHTTP(ctx context.Context, service string, req *proof.Request, enc proof.Encoding) (*proof.Envelope, error) {
	u, err := url.Parse(service)
	if err != nil {
		return nil, errors.Wrap(err, "parse service url")
	}
	q := u.Query()
	q.Set("encoding", enc.String())
	u.RawQuery = q.Encode()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("User-Agent", constant.Agent)

	resp, err := http.DefaultClient.Do(hr)
	if err != nil {
		return nil, errors.Wrap(err, "post request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		var e handler.ErrorResponse
		if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
		}
		return nil, fmt.Errorf("status %d: %s", e.Status, e.Error)
	}
	return proof.UnmarshalEnvelope(data, enc)
}

func fetchGRPC(ctx context.Context, target string, req *proof.Request) (*proof.Envelope, error) {
	client, err := exposegrpc.Dial(ctx, target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	env, err := client.GetStateProof(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := env.Variant(); err != nil {
		return nil, err
	}
	return env, nil
}

func printEnvelope(w io.Writer, env *proof.Envelope) error {
	v, err := env.Variant()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "domain:  %s\nroot:    %s\nvariant: %s\nproof:   %d bytes\n",
		env.Domain, env.Root.Hex(), v.Tag(), len(env.Proof))
	return err
}

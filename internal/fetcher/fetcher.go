package fetcher

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/eth"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

const (
	metadataCacheSize = 256
	retryDelay        = time.Second
)

// ChainReader is the slice of the RPC client the fetcher needs.
type ChainReader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

type poolTokens struct {
	token0 common.Address
	token1 common.Address
}

// BatchFetcher pulls reserves for a set of pools in parallel. token0/token1
// never change for a pair, so they are resolved once per pool and cached.
type BatchFetcher struct {
	client     ChainReader
	pairABI    abi.ABI
	metadata   *lru.Cache[common.Address, poolTokens]
	maxRetries int
}

func NewBatchFetcher(client ChainReader, maxRetries int) (*BatchFetcher, error) {
	pairABI, err := abi.JSON(strings.NewReader(eth.PairABI))
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	metadata, err := lru.New[common.Address, poolTokens](metadataCacheSize)
	if err != nil {
		return nil, err
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &BatchFetcher{
		client:     client,
		pairABI:    pairABI,
		metadata:   metadata,
		maxRetries: maxRetries,
	}, nil
}

// FetchAll snapshots every pool at a single block number. Pools that keep
// failing after retries are simply absent from the result; the caller decides
// whether a partial snapshot is usable.
func (f *BatchFetcher) FetchAll(ctx context.Context, pools []common.Address) (map[common.Address]*market.PoolReserves, uint64, error) {
	blockNumber, err := f.client.BlockNumber(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch block number: %w", err)
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[common.Address]*market.PoolReserves, len(pools))
	)
	for _, pool := range pools {
		wg.Add(1)
		go func(pool common.Address) {
			defer wg.Done()
			snapshot, err := f.FetchReserves(ctx, pool, blockNumber)
			if err != nil {
				fmt.Printf("⚠️  pool %s: %v\n", pool.Hex(), err)
				return
			}
			mu.Lock()
			out[pool] = snapshot
			mu.Unlock()
		}(pool)
	}
	wg.Wait()

	return out, blockNumber, nil
}

// FetchReserves reads getReserves for one pool with bounded retries and maps
// token0/token1 onto known tokens. Pools trading tokens outside the registry
// are an error here; the universe is closed by design of the route.
func (f *BatchFetcher) FetchReserves(ctx context.Context, pool common.Address, blockNumber uint64) (*market.PoolReserves, error) {
	tokens, err := f.poolTokens(ctx, pool)
	if err != nil {
		return nil, err
	}

	tokenA, okA := dex.TokenByAddress(tokens.token0)
	tokenB, okB := dex.TokenByAddress(tokens.token1)
	if !okA || !okB {
		return nil, fmt.Errorf("pool %s trades unknown tokens", pool.Hex())
	}

	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		reserve0, reserve1, err := f.callGetReserves(ctx, pool)
		if err != nil {
			lastErr = err
			continue
		}
		return market.NewPoolReserves(tokenA, reserve0, tokenB, reserve1, blockNumber, pool), nil
	}
	return nil, fmt.Errorf("getReserves %s after %d attempts: %w", pool.Hex(), f.maxRetries, lastErr)
}

func (f *BatchFetcher) poolTokens(ctx context.Context, pool common.Address) (poolTokens, error) {
	if cached, ok := f.metadata.Get(pool); ok {
		return cached, nil
	}

	token0, err := f.callAddress(ctx, pool, "token0")
	if err != nil {
		return poolTokens{}, err
	}
	token1, err := f.callAddress(ctx, pool, "token1")
	if err != nil {
		return poolTokens{}, err
	}

	tokens := poolTokens{token0: token0, token1: token1}
	f.metadata.Add(pool, tokens)
	return tokens, nil
}

func (f *BatchFetcher) callAddress(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	data, err := f.pairABI.Pack(method)
	if err != nil {
		return common.Address{}, err
	}
	raw, err := f.client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s %s: %w", method, pool.Hex(), err)
	}
	values, err := f.pairABI.Unpack(method, raw)
	if err != nil || len(values) != 1 {
		return common.Address{}, fmt.Errorf("unpack %s %s: %w", method, pool.Hex(), err)
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s %s: unexpected return type", method, pool.Hex())
	}
	return addr, nil
}

func (f *BatchFetcher) callGetReserves(ctx context.Context, pool common.Address) (*uint256.Int, *uint256.Int, error) {
	data, err := f.pairABI.Pack("getReserves")
	if err != nil {
		return nil, nil, err
	}
	raw, err := f.client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return nil, nil, err
	}
	values, err := f.pairABI.Unpack("getReserves", raw)
	if err != nil || len(values) < 2 {
		return nil, nil, fmt.Errorf("unpack getReserves: %w", err)
	}

	reserve0, ok0 := values[0].(*big.Int)
	reserve1, ok1 := values[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, fmt.Errorf("getReserves returned unexpected types")
	}

	r0, overflow0 := uint256.FromBig(reserve0)
	r1, overflow1 := uint256.FromBig(reserve1)
	if overflow0 || overflow1 {
		return nil, nil, fmt.Errorf("reserve overflows uint256")
	}
	return r0, r1, nil
}

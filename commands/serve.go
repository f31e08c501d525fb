package commands

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/zeu5/treatment-rl/checkpoint"
	"github.com/zeu5/treatment-rl/networks"
)

func ServeCommand() *cobra.Command {
	var (
		port        int
		networkName string
		weightsPath string
		redisAddr   string
		cacheTTL    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluation-mode forward calls over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := buildNetwork(networkName)
			if err != nil {
				return err
			}
			if weightsPath != "" {
				w, err := checkpoint.Load(weightsPath)
				if err != nil {
					return err
				}
				if err := net.SetWeights(w); err != nil {
					return err
				}
			}

			var cache *redis.Client
			if redisAddr != "" {
				cache = redis.NewClient(&redis.Options{
					Addr: redisAddr,
				})
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.GET("/healthz", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"network": net.Name()})
			})
			r.POST("/forward", forwardHandler(net, cache, cacheTTL))
			server := &http.Server{
				Addr:    fmt.Sprintf("localhost:%d", port),
				Handler: r,
			}
			fmt.Printf("Serving %s network on %s\n", net.Name(), server.Addr)
			return server.ListenAndServe()
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVarP(&networkName, "network", "n", "concat", "Network variant: substitution, concat or potential-outcome")
	cmd.Flags().StringVarP(&weightsPath, "weights", "w", "", "Checkpoint file to load weights from")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for response caching (empty disables)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 5*time.Minute, "TTL of cached responses")
	return cmd
}

type forwardRequest struct {
	States     [][]float64 `json:"states"`
	PrevAction int         `json:"prev_action"`
}

type forwardResponse struct {
	TreatmentLogits []float64 `json:"treatment_logits"`
	ActionValues    []float64 `json:"action_values"`
	Action          int       `json:"action"`
}

func forwardHandler(net networks.QNetwork, cache *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forwardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}

		key := requestKey(req)
		if cache != nil {
			if cached, err := cache.Get(c.Request.Context(), key).Result(); err == nil {
				var resp forwardResponse
				if json.Unmarshal([]byte(cached), &resp) == nil {
					c.JSON(http.StatusOK, resp)
					return
				}
			}
		}

		out, err := net.Forward(&networks.Sample{
			States:     req.States,
			PrevAction: req.PrevAction,
		}, networks.Evaluation)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp := forwardResponse{
			TreatmentLogits: out.TreatmentLogits,
			ActionValues:    out.ActionValues,
			Action:          argmax(out.ActionValues),
		}

		if cache != nil {
			if bs, err := json.Marshal(resp); err == nil {
				cache.Set(c.Request.Context(), key, bs, ttl)
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// requestKey derives a cache key from the request body. Forward
// evaluation is deterministic for fixed weights, so identical
// requests always map to identical responses.
func requestKey(req forwardRequest) string {
	bs, _ := json.Marshal(req)
	sum := sha256.Sum256(bs)
	return "treatment-rl:forward:" + hex.EncodeToString(sum[:])
}

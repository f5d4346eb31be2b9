package scenes

import (
	"github.com/ivlev/wrapped2video/internal/anim"
	"github.com/ivlev/wrapped2video/internal/draw"
	"github.com/ivlev/wrapped2video/internal/stats"
)

func renderSummary(e *env, local int, s stats.Wrapped) *draw.Node {
	lines := []line{
		{text: "Total Transactions: " + stats.Number(s.TotalTransactions), size: size3XL, gap: 16},
		{text: "Wallet Overview: $" + stats.Number(s.WalletOverview), size: size3XL, gap: 16},
		{text: "Total SOL Spent on Fees: " + stats.Number(s.TotalSolSpent) + " SOL", size: size3XL},
	}
	return e.column("content",
		e.heading("Summary", local),
		e.single(0, lines, 24, 0, local),
	)
}

func renderNFTHighlights(e *env, local int, s stats.Wrapped) *draw.Node {
	return e.column("content",
		e.heading("NFT Highlights", local),
		e.grid(
			[]line{
				{text: "Top Collections:", size: size2XL},
				{text: s.MostInteractedNFTs, size: sizeXL, weight: weightExtraBold},
			},
			[]line{
				{text: "Most Valuable NFT:", size: size2XL},
				{text: s.MostValuableNFT, size: sizeXL, weight: weightExtraBold},
			},
			16, local,
		),
	)
}

func renderTokenActivity(e *env, local int, s stats.Wrapped) *draw.Node {
	return e.column("content",
		e.heading("Token Activity", local),
		e.single(0, []line{
			{text: "Most Interacted Tokens:", size: size3XL, gap: 16},
			{text: s.MostInteractedTokens, size: size2XL, weight: weightExtraBold},
		}, 24, 24, local),
		e.single(1, []line{
			{text: "SOL Price Change vs Jan 1st:", size: size3XL},
			{text: s.SolPriceChange, size: size5XL, weight: weightBlack},
		}, 24, 0, local),
	)
}

func renderDeFiInsights(e *env, local int, s stats.Wrapped) *draw.Node {
	return e.column("content",
		e.heading("DeFi Insights", local),
		e.grid(
			[]line{
				{text: "Total SOL Staked:", size: size2XL},
				{text: stats.Number(s.TotalSolStaked) + " SOL", size: size4XL, weight: weightBlack},
			},
			[]line{
				{text: "Top Programs:", size: size2XL},
				{text: s.MostInteractedPrograms, size: sizeXL, weight: weightExtraBold},
			},
			16, local,
		),
	)
}

// qrSpring pops the share code in after the cards have settled.
var qrSpring = anim.SpringConfig{Mass: 1, Stiffness: 120, Damping: 14}

func renderNewConnections(e *env, local int, s stats.Wrapped) *draw.Node {
	footer := line{text: "Your network is growing!", size: size2XL, weight: weightExtraBold, italic: true}

	pieces := []piece{
		e.heading("New Connections", local),
		e.single(0, []line{
			{text: "New Addresses Interacted:", size: size3XL},
			{text: stats.Number(s.NewAddressesInteracted), size: size7XL, weight: weightBlack},
		}, 24, 32, local),
		{
			height: e.lineHeight(footer.size),
			draw: func(top float64) *draw.Node {
				return e.text("footer", footer, e.size.W/2, top, local)
			},
		},
	}

	if e.share != nil {
		side := e.px(240)
		pieces[len(pieces)-1].gap = e.px(48)
		pieces = append(pieces, piece{
			height: side,
			draw: func(top float64) *draw.Node {
				p := anim.Spring(float64(local)-1.5*e.fps, e.fps, qrSpring)
				return draw.Group("share", e.share.Node(side, draw.RGB(20, 3, 24), draw.White)).
					Translate(e.size.W/2, top+side/2).
					Scaled(p).
					Faded(clamp01(p))
			},
		})
	}
	return e.column("content", pieces...)
}

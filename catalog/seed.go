package catalog

import "go-storefront/models"

var builtin = []models.Product{
	{
		ID:          "1",
		Title:       "Quantum Noise-Canceling Headphones",
		Price:       299.99,
		Description: "Experience silence with our top-tier noise cancellation technology.",
		Category:    models.CategoryElectronics,
		Stock:       50,
		Image:       "https://image.pollinations.ai/prompt/modern%20black%20over-ear%20headphones%20product%20shot",
		Rating:      4.8,
	},
	{
		ID:          "2",
		Title:       "Ergonomic Mesh Office Chair",
		Price:       199.50,
		Description: "Work in comfort with lumbar support and breathable mesh.",
		Category:    models.CategoryHome,
		Stock:       20,
		Image:       "https://image.pollinations.ai/prompt/ergonomic%20black%20mesh%20office%20chair%20studio%20background",
		Rating:      4.5,
	},
	{
		ID:          "3",
		Title:       "Minimalist Mechanical Keyboard",
		Price:       120.00,
		Description: "Tactile feedback with a sleek, compact design.",
		Category:    models.CategoryElectronics,
		Stock:       35,
		Image:       "https://image.pollinations.ai/prompt/sleek%20white%20mechanical%20keyboard%20on%20desk",
		Rating:      4.7,
	},
	{
		ID:          "4",
		Title:       "Smart Fitness Watch Pro",
		Price:       249.99,
		Description: "Track your health metrics, sleep, and workouts with precision.",
		Category:    models.CategoryElectronics,
		Stock:       100,
		Image:       "https://image.pollinations.ai/prompt/smart%20fitness%20watch%20with%20screen%20display",
		Rating:      4.6,
	},
	{
		ID:          "5",
		Title:       "Premium Cotton Hoodie",
		Price:       59.99,
		Description: "Soft, durable, and stylish. Perfect for casual wear.",
		Category:    models.CategoryFashion,
		Stock:       200,
		Image:       "https://image.pollinations.ai/prompt/folded%20premium%20grey%20cotton%20hoodie",
		Rating:      4.3,
	},
	{
		ID:          "6",
		Title:       "Wireless Charging Pad",
		Price:       29.99,
		Description: "Fast charging for all your Qi-enabled devices.",
		Category:    models.CategoryElectronics,
		Stock:       150,
		Image:       "https://image.pollinations.ai/prompt/sleek%20round%20wireless%20charging%20pad",
		Rating:      4.1,
	},
	{
		ID:          "7",
		Title:       "Ceramic Coffee Mug Set",
		Price:       35.00,
		Description: "Handcrafted ceramic mugs for your morning brew.",
		Category:    models.CategoryHome,
		Stock:       40,
		Image:       "https://image.pollinations.ai/prompt/set%20of%20artisanal%20ceramic%20coffee%20mugs",
		Rating:      4.9,
	},
	{
		ID:          "8",
		Title:       "Yoga Mat Eco-Friendly",
		Price:       45.00,
		Description: "Non-slip, sustainable material for perfect poses.",
		Category:    models.CategorySports,
		Stock:       60,
		Image:       "https://image.pollinations.ai/prompt/rolled%20eco-friendly%20yoga%20mat%20texture",
		Rating:      4.4,
	},
	{
		ID:          "9",
		Title:       "Running Sneakers Air",
		Price:       110.00,
		Description: "Lightweight design for marathon runners.",
		Category:    models.CategorySports,
		Stock:       25,
		Image:       "https://image.pollinations.ai/prompt/pair%20of%20modern%20running%20sneakers%20sport",
		Rating:      4.5,
	},
	{
		ID:          "10",
		Title:       "Sci-Fi Novel Collection",
		Price:       80.00,
		Description: "A curated set of the decade's best science fiction.",
		Category:    models.CategoryBooks,
		Stock:       10,
		Image:       "https://image.pollinations.ai/prompt/stack%20of%20science%20fiction%20books%20space%20cover",
		Rating:      4.8,
	},
	{
		ID:          "11",
		Title:       "Vintage Denim Jacket",
		Price:       89.99,
		Description: "Classic look that never goes out of style.",
		Category:    models.CategoryFashion,
		Stock:       15,
		Image:       "https://image.pollinations.ai/prompt/vintage%20blue%20denim%20jacket%20hanging",
		Rating:      4.2,
	},
	{
		ID:          "12",
		Title:       "Smart Home Hub",
		Price:       149.99,
		Description: "Control all your devices from one central unit.",
		Category:    models.CategoryHome,
		Stock:       30,
		Image:       "https://image.pollinations.ai/prompt/smart%20home%20hub%20device%20on%20table",
		Rating:      4.0,
	},
	{
		ID:          "13",
		Title:       "Bluetooth Portable Speaker",
		Price:       65.00,
		Description: "Waterproof sound system for outdoor adventures.",
		Category:    models.CategoryElectronics,
		Stock:       80,
		Image:       "https://image.pollinations.ai/prompt/rugged%20portable%20bluetooth%20speaker%20outdoor",
		Rating:      4.3,
	},
	{
		ID:          "14",
		Title:       "Leather Wallet",
		Price:       45.00,
		Description: "Genuine leather with RFID protection.",
		Category:    models.CategoryFashion,
		Stock:       90,
		Image:       "https://image.pollinations.ai/prompt/classic%20brown%20leather%20wallet%20men",
		Rating:      4.6,
	},
	{
		ID:          "15",
		Title:       "Stainless Steel Water Bottle",
		Price:       25.00,
		Description: "Keeps drinks cold for 24 hours.",
		Category:    models.CategorySports,
		Stock:       120,
		Image:       "https://image.pollinations.ai/prompt/sleek%20stainless%20steel%20water%20bottle%20insulated",
		Rating:      4.7,
	},
	{
		ID:          "16",
		Title:       "Modern Table Lamp",
		Price:       55.00,
		Description: "Adjustable brightness with a warm glow.",
		Category:    models.CategoryHome,
		Stock:       25,
		Image:       "https://image.pollinations.ai/prompt/modern%20minimalist%20table%20lamp%20lit",
		Rating:      4.4,
	},
	{
		ID:          "17",
		Title:       "Biography of Great Leaders",
		Price:       30.00,
		Description: "Inspiring stories from history.",
		Category:    models.CategoryBooks,
		Stock:       40,
		Image:       "https://image.pollinations.ai/prompt/hardcover%20biography%20book%20historical",
		Rating:      4.9,
	},
	{
		ID:          "18",
		Title:       "Programming Cookbook",
		Price:       50.00,
		Description: "Essential algorithms and patterns.",
		Category:    models.CategoryBooks,
		Stock:       55,
		Image:       "https://image.pollinations.ai/prompt/programming%20coding%20textbook%20computer%20science",
		Rating:      4.8,
	},
	{
		ID:          "19",
		Title:       "Action Camera 4K",
		Price:       299.00,
		Description: "Capture your extreme moments in high definition.",
		Category:    models.CategoryElectronics,
		Stock:       15,
		Image:       "https://image.pollinations.ai/prompt/compact%204k%20action%20camera%20waterproof",
		Rating:      4.5,
	},
	{
		ID:          "20",
		Title:       "Bamboo Cutlery Set",
		Price:       15.00,
		Description: "Reusable and eco-friendly dining.",
		Category:    models.CategoryHome,
		Stock:       200,
		Image:       "https://image.pollinations.ai/prompt/set%20of%20bamboo%20cutlery%20eco%20friendly",
		Rating:      4.2,
	},
}

// Seed returns a fresh copy of the built-in catalog
func Seed() []models.Product {
	res := make([]models.Product, len(builtin))
	copy(res, builtin)
	return res
}
